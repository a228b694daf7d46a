package workflow

import "complaint-console/internal/domain"

// NewState seeds a session with its complaint in the idle phase.
func NewState(c domain.Complaint) domain.WorkflowState {
	return domain.WorkflowState{
		Phase:     domain.PhaseIdle,
		Complaint: c,
	}
}

// Reduce returns the next state for an event. It never mutates its
// input; callers always get a fresh snapshot. Unknown phase/event
// combinations leave the state unchanged apart from the cleared notice.
func Reduce(s domain.WorkflowState, e Event) domain.WorkflowState {
	next := s
	next.Notice = ""

	switch ev := e.(type) {
	case AnalysisStarted:
		next.Phase = domain.PhaseAnalyzing
		next.IsLoading = true
		next.Error = ""

	case AnalysisSucceeded:
		next.Phase = domain.PhaseReady
		next.IsLoading = false
		next.Complaint.BackendID = ev.BackendID
		if ev.MaskedText != "" {
			next.Complaint.MaskedText = ev.MaskedText
		}
		analysis := ev.Analysis
		suggestion := ev.Suggestion
		next.Analysis = &analysis
		next.Suggestion = &suggestion
		next.Draft = ev.Suggestion.ResponseDraft

	case AnalysisFailed:
		next.Phase = domain.PhaseIdle
		next.IsLoading = false
		next.Error = ev.Message

	case SimilarLoaded:
		similar := ev.Similar
		if similar == nil {
			similar = []domain.SimilarComplaint{}
		}
		next.Similar = similar
		next.SimilarLoaded = true

	case DraftEdited:
		next.Draft = ev.Text

	case SubmitStarted:
		next.Phase = domain.PhaseSubmitting
		next.IsSubmitting = true
		next.Error = ""

	case SubmitFinished:
		next.Phase = domain.PhaseReady
		next.IsSubmitting = false
		next.Notice = ev.Notice
	}

	return next
}
