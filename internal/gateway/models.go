// Package gateway is the HTTP client for the complaint review backend.
// It owns the wire contract and the typed failures. There are no
// retries and no deduplication: one call is one request.
package gateway

import "complaint-console/internal/domain"

// Source is a knowledge-base hit attached to an analysis response.
type Source struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	Similarity float64 `json:"similarity"`
}

// AnalysisResponse is the raw backend payload for submit and edit.
// Category and priority arrive as the backend's own vocabulary; the
// normalizer translates them into the domain enums.
type AnalysisResponse struct {
	ID                 int64    `json:"id"`
	MaskedText         string   `json:"maskedText"`
	CategoryCode       string   `json:"category_code"`
	PriorityCode       string   `json:"priority_code"`
	SuggestedReply     string   `json:"suggestedReply"`
	Sources            []Source `json:"sources"`
	CategoryConfidence float64  `json:"categoryConfidence"`
	UrgencyConfidence  float64  `json:"urgencyConfidence"`
	Status             string   `json:"status"`
}

type submitRequest struct {
	Text string `json:"text"`
}

type editRequest struct {
	CustomerReplyDraft string `json:"customer_reply_draft"`
	EditReason         string `json:"edit_reason"`
}

type decisionRequest struct {
	Notes string `json:"notes"`
}

type similarEnvelope struct {
	SimilarComplaints []domain.SimilarComplaint `json:"similar_complaints"`
}
