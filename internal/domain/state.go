package domain

// Phase is the primary workflow state of a review session.
type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhaseAnalyzing  Phase = "ANALYZING"
	PhaseReady      Phase = "READY"
	PhaseSubmitting Phase = "SUBMITTING"
)

// WorkflowState is the sole unit of mutation for a review session.
// Every transition replaces it wholesale, so readers always observe a
// consistent snapshot.
//
// Draft holds the operator's local edits to the suggested reply, kept
// apart from the Suggestion record. Notice is transient operator
// feedback and does not survive the next transition.
type WorkflowState struct {
	Phase         Phase              `json:"phase"`
	Complaint     Complaint          `json:"complaint"`
	Analysis      *AnalysisResult    `json:"analysis,omitempty"`
	Suggestion    *Suggestion        `json:"suggestion,omitempty"`
	Similar       []SimilarComplaint `json:"similarComplaints,omitempty"`
	SimilarLoaded bool               `json:"similarLoaded"`
	Draft         string             `json:"draft,omitempty"`
	IsLoading     bool               `json:"isLoading"`
	IsSubmitting  bool               `json:"isSubmitting"`
	Error         string             `json:"error,omitempty"`
	Notice        string             `json:"notice,omitempty"`
}
