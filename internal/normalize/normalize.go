// Package normalize translates the review backend's wire vocabulary into
// the domain model. Response is total: every structurally valid payload
// produces a result, with unknown codes degrading to explicit fallbacks.
package normalize

import (
	"fmt"
	"math"

	"complaint-console/internal/domain"
	"complaint-console/internal/gateway"
)

var categoryByCode = map[string]domain.Category{
	"DOLANDIRICILIK":     domain.CategoryFraudUnauthorizedTx,
	"KART_PROBLEMI":      domain.CategoryCardIssue,
	"TRANSFER_GECIKMESI": domain.CategoryTransferDelay,
	"HIZMET_SORUNU":      domain.CategoryServiceIssue,
	"TEKNIK":             domain.CategoryTechnical,
}

var priorityByCode = map[string]domain.Priority{
	"YUKSEK": domain.PriorityCritical,
	"ORTA":   domain.PriorityHigh,
	"DUSUK":  domain.PriorityMedium,
}

// Category maps a backend category code, degrading to UNKNOWN for codes
// outside the table.
func Category(code string) domain.Category {
	if c, ok := categoryByCode[code]; ok {
		return c
	}
	return domain.CategoryUnknown
}

// Priority maps a backend priority code, degrading to LOW for codes
// outside the table.
func Priority(code string) domain.Priority {
	if p, ok := priorityByCode[code]; ok {
		return p
	}
	return domain.PriorityLow
}

// Response converts a raw analysis payload into the normalized analysis
// and suggestion pair.
//
// The confidence score is the arithmetic mean of the two confidences the
// backend reports separately. The backend gives no verbatim reasoning in
// this mode, so one is synthesized from the raw percentages. Sentiment
// is not reported either and is pinned to NEUTRAL.
func Response(raw *gateway.AnalysisResponse) (domain.AnalysisResult, domain.Suggestion) {
	analysis := domain.AnalysisResult{
		Category:        Category(raw.CategoryCode),
		Priority:        Priority(raw.PriorityCode),
		Sentiment:       domain.SentimentNeutral,
		ConfidenceScore: (raw.CategoryConfidence + raw.UrgencyConfidence) / 2,
		Reasoning: fmt.Sprintf("Kategori güveni: %%%d, Öncelik güveni: %%%d",
			roundPercent(raw.CategoryConfidence), roundPercent(raw.UrgencyConfidence)),
	}

	articles := make([]domain.KBArticle, 0, len(raw.Sources))
	for _, src := range raw.Sources {
		articles = append(articles, domain.KBArticle{
			ID:        src.ID,
			Title:     src.Title,
			Relevance: src.Similarity,
		})
	}

	suggestion := domain.Suggestion{
		ResponseDraft: raw.SuggestedReply,
		Actions:       []string{"REVIEW_REQUIRED"},
		KBArticles:    articles,
	}

	return analysis, suggestion
}

func roundPercent(v float64) int {
	return int(math.Round(v * 100))
}
