package domain

// SimilarComplaint is a previously recorded complaint judged textually
// close to the current one. Advisory and read-only; an empty list is a
// valid terminal state. Field tags match the backend wire shape, which
// is copied through unchanged.
type SimilarComplaint struct {
	ID              int64   `json:"id"`
	MaskedText      string  `json:"masked_text"`
	Category        string  `json:"category"`
	SimilarityScore float64 `json:"similarity_score"`
	CreatedAt       string  `json:"created_at"`
	Status          string  `json:"status"`
}
