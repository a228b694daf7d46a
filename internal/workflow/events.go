// Package workflow owns the per-session review state machine and the
// controller that drives it against the review backend.
package workflow

import (
	"time"

	"complaint-console/internal/domain"
)

// Event is an input to the state machine. Events carry everything their
// transition needs, so Reduce stays free of I/O and deterministic.
type Event interface {
	Name() string
}

// AnalysisStarted begins the analysis cycle for the session complaint.
type AnalysisStarted struct{}

// AnalysisSucceeded installs the normalized analysis, suggestion and the
// backend-populated complaint fields in one transition.
type AnalysisSucceeded struct {
	BackendID  int64
	MaskedText string
	Analysis   domain.AnalysisResult
	Suggestion domain.Suggestion
}

// AnalysisFailed records a user-facing error and returns to idle.
type AnalysisFailed struct {
	Message string
}

// SimilarLoaded merges the similar-complaints result. It applies in any
// phase: the list is advisory and a late arrival is never stale.
type SimilarLoaded struct {
	Similar []domain.SimilarComplaint
}

// DraftEdited replaces the operator's local reply draft.
type DraftEdited struct {
	Text string
}

// SubmitStarted begins an approve/reject round trip.
type SubmitStarted struct{}

// SubmitFinished returns to ready with a transient operator notice,
// whether the decision call succeeded or not.
type SubmitFinished struct {
	Notice string
}

func (AnalysisStarted) Name() string   { return "analysis_started" }
func (AnalysisSucceeded) Name() string { return "analysis_succeeded" }
func (AnalysisFailed) Name() string    { return "analysis_failed" }
func (SimilarLoaded) Name() string     { return "similar_loaded" }
func (DraftEdited) Name() string       { return "draft_edited" }
func (SubmitStarted) Name() string     { return "submit_started" }
func (SubmitFinished) Name() string    { return "submit_finished" }

// DecisionEvent is the record published to the audit stream when an
// operator decision is accepted by the backend.
type DecisionEvent struct {
	SessionID   string    `json:"sessionId"`
	ComplaintID string    `json:"complaintId"`
	BackendID   int64     `json:"backendId"`
	Action      string    `json:"action"`
	Notes       string    `json:"notes,omitempty"`
	DecidedAt   time.Time `json:"decidedAt"`
}
