package domain

// Category is the normalized complaint category. The set is closed;
// backend codes outside the mapping tables degrade to CategoryUnknown
// instead of failing.
type Category string

const (
	CategoryFraudUnauthorizedTx Category = "FRAUD_UNAUTHORIZED_TX"
	CategoryCardIssue           Category = "CARD_ISSUE"
	CategoryTransferDelay       Category = "TRANSFER_DELAY"
	CategoryServiceIssue        Category = "SERVICE_ISSUE"
	CategoryTechnical           Category = "TECHNICAL"
	CategoryUnknown             Category = "UNKNOWN"
)

// Priority is ordered LOW < MEDIUM < HIGH < CRITICAL.
type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

var priorityRank = map[Priority]int{
	PriorityLow:      0,
	PriorityMedium:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// Rank returns the ordinal position of the priority, -1 for unknown values.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return -1
}

// Sentiment is the detected emotional tone of the complaint.
type Sentiment string

const (
	SentimentAngry     Sentiment = "ANGRY"
	SentimentNeutral   Sentiment = "NEUTRAL"
	SentimentConcerned Sentiment = "CONCERNED"
)

// AnalysisResult is the normalized AI categorization of a complaint.
// It is replaced wholesale on re-analysis, never patched field by field.
type AnalysisResult struct {
	Category        Category  `json:"category"`
	Priority        Priority  `json:"priority"`
	Sentiment       Sentiment `json:"sentiment"`
	ConfidenceScore float64   `json:"confidenceScore"`
	Reasoning       string    `json:"reasoning"`
}

// KBArticle is a knowledge-base reference backing a suggested reply.
type KBArticle struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Relevance float64 `json:"relevance"`
}

// Suggestion is the drafted reply plus supporting material. The
// operator's edits live in WorkflowState.Draft and are never written
// back into the suggestion record.
type Suggestion struct {
	ResponseDraft string      `json:"responseDraft"`
	Actions       []string    `json:"actions"`
	KBArticles    []KBArticle `json:"kbArticles"`
}
