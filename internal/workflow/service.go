package workflow

import (
	"context"
	"sync"
	"time"

	"complaint-console/internal/common/logger"
	"complaint-console/internal/common/metrics"
	"complaint-console/internal/domain"
	"complaint-console/internal/gateway"
	"complaint-console/internal/normalize"
)

// Operator-facing notices. The error taxonomy stays in the logs; the
// operator sees one short localized message per outcome.
const (
	noticeAnalysisFailed = "Analiz sırasında hata oluştu."
	noticeApproved       = "Şikayet başarıyla çözüldü ve yanıt gönderildi."
	noticeApproveFailed  = "Onaylama sırasında hata oluştu, lütfen tekrar deneyin."
	noticeRejected       = "Şikayet reddedildi."
	noticeRejectFailed   = "Reddetme sırasında hata oluştu, lütfen tekrar deneyin."
	noticeEditFailed     = "Düzenleme sırasında hata oluştu, lütfen tekrar deneyin."
	noticeOnHold         = "Şikayet beklemede, kayıt üzerinde işlem yapılmadı."
)

const (
	actionApprove = "APPROVE"
	actionReject  = "REJECT"
)

// Gateway is the outbound surface the controller drives.
type Gateway interface {
	Submit(ctx context.Context, text string) (*gateway.AnalysisResponse, error)
	FindSimilar(ctx context.Context, complaintID int64, limit int) ([]domain.SimilarComplaint, error)
	Edit(ctx context.Context, complaintID int64, text, reason string) (*gateway.AnalysisResponse, error)
	Approve(ctx context.Context, complaintID int64, notes string) error
	Reject(ctx context.Context, complaintID int64, notes string) error
}

// Store persists workflow snapshots between console requests.
type Store interface {
	Load(ctx context.Context, sessionID string) (domain.WorkflowState, error)
	Save(ctx context.Context, sessionID string, state domain.WorkflowState) error
}

// Publisher emits operator decision events. Implementations must not
// block the decision path; the service calls it from a detached
// goroutine and failures are logged only.
type Publisher interface {
	PublishDecision(ctx context.Context, e DecisionEvent) error
}

type Config struct {
	SimilarLimit   int
	SimilarTimeout time.Duration
}

// Service is the workflow controller: it owns the session state machine
// and sequences submit -> normalize -> populate -> detached similar
// fetch -> operator decision.
type Service struct {
	gateway Gateway
	store   Store
	audit   Publisher
	cfg     Config
	logger  logger.Logger

	mu       sync.Mutex
	sessions map[string]*sync.Mutex
}

func NewService(gw Gateway, store Store, audit Publisher, cfg Config, log logger.Logger) *Service {
	if cfg.SimilarLimit <= 0 {
		cfg.SimilarLimit = 5
	}
	if cfg.SimilarTimeout <= 0 {
		cfg.SimilarTimeout = 10 * time.Second
	}
	return &Service{
		gateway:  gw,
		store:    store,
		audit:    audit,
		cfg:      cfg,
		logger:   log.WithFields(map[string]interface{}{"component": "workflow"}),
		sessions: make(map[string]*sync.Mutex),
	}
}

// sessionLock returns the mutex serializing state updates for one
// session. Every update is a load-apply-save; without the lock the
// detached similar merge could interleave with another update and one
// of the two writes would be lost.
func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.sessions[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.sessions[sessionID] = l
	}
	return l
}

// StartReview seeds the session and runs the analysis cycle once. A
// gateway failure is not an error of this method: it lands in the state
// as the session error, leaving the operator a retryable idle state.
func (s *Service) StartReview(ctx context.Context, sessionID string, c domain.Complaint) (domain.WorkflowState, error) {
	st := s.apply(NewState(c), AnalysisStarted{})
	if err := s.store.Save(ctx, sessionID, st); err != nil {
		return st, err
	}

	raw, err := s.gateway.Submit(ctx, c.OriginalText)
	if err != nil {
		s.logger.WithError(err).Error("complaint analysis failed", map[string]interface{}{
			"sessionId":   sessionID,
			"complaintId": c.ID,
		})
		st = s.apply(st, AnalysisFailed{Message: noticeAnalysisFailed})
		if saveErr := s.store.Save(ctx, sessionID, st); saveErr != nil {
			return st, saveErr
		}
		return st, nil
	}

	analysis, suggestion := normalize.Response(raw)
	st = s.apply(st, AnalysisSucceeded{
		BackendID:  raw.ID,
		MaskedText: raw.MaskedText,
		Analysis:   analysis,
		Suggestion: suggestion,
	})
	if err := s.store.Save(ctx, sessionID, st); err != nil {
		return st, err
	}

	s.logger.Info("analysis ready", map[string]interface{}{
		"sessionId": sessionID,
		"backendId": raw.ID,
		"category":  analysis.Category,
		"priority":  analysis.Priority,
	})

	// Detached: readiness is not gated on the similar-complaints fetch.
	go s.loadSimilar(sessionID, raw.ID)

	return st, nil
}

// Get returns the current session snapshot.
func (s *Service) Get(ctx context.Context, sessionID string) (domain.WorkflowState, error) {
	return s.store.Load(ctx, sessionID)
}

// UpdateDraft stores the operator's local edit of the reply draft. The
// suggestion record itself is never written back.
func (s *Service) UpdateDraft(ctx context.Context, sessionID, text string) (domain.WorkflowState, error) {
	return s.applyAndSave(ctx, sessionID, DraftEdited{Text: text})
}

// SubmitEdit sends the reworked reply to the backend and installs the
// re-normalized analysis wholesale. On failure the state is unchanged
// and the operator gets a transient notice.
func (s *Service) SubmitEdit(ctx context.Context, sessionID, text, reason string) (domain.WorkflowState, error) {
	st, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return st, err
	}
	if !st.Complaint.HasBackendID() {
		s.logger.Warn("edit ignored: backend id not set", map[string]interface{}{"sessionId": sessionID})
		return st, nil
	}

	raw, err := s.gateway.Edit(ctx, st.Complaint.BackendID, text, reason)
	if err != nil {
		s.logger.WithError(err).Error("edit submission failed", map[string]interface{}{"sessionId": sessionID})
		st.Notice = noticeEditFailed
		return st, nil
	}

	analysis, suggestion := normalize.Response(raw)
	// Rebuild from the stored snapshot: the detached similar merge may
	// have landed while the edit call was in flight.
	st, err = s.applyAndSave(ctx, sessionID, AnalysisSucceeded{
		BackendID:  raw.ID,
		MaskedText: raw.MaskedText,
		Analysis:   analysis,
		Suggestion: suggestion,
	})
	if err != nil {
		return st, err
	}
	return st, nil
}

// Approve submits the approve decision. Guarded on a populated backend
// id; without one the call is a no-op and the state is returned as is.
func (s *Service) Approve(ctx context.Context, sessionID, notes string) (domain.WorkflowState, error) {
	return s.decide(ctx, sessionID, notes, actionApprove)
}

// Reject submits the reject decision. It requires explicit operator
// confirmation: without it no gateway call is issued and the state is
// unchanged. The record stays visible afterwards pending the external
// state change.
func (s *Service) Reject(ctx context.Context, sessionID, notes string, confirmed bool) (domain.WorkflowState, error) {
	if !confirmed {
		s.logger.Info("reject not confirmed, no action taken", map[string]interface{}{"sessionId": sessionID})
		return s.store.Load(ctx, sessionID)
	}
	return s.decide(ctx, sessionID, notes, actionReject)
}

// Hold reports an informational notice only: no transition, no gateway
// call, nothing persisted.
func (s *Service) Hold(ctx context.Context, sessionID string) (domain.WorkflowState, error) {
	st, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return st, err
	}
	st.Notice = noticeOnHold
	return st, nil
}

func (s *Service) decide(ctx context.Context, sessionID, notes, action string) (domain.WorkflowState, error) {
	st, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return st, err
	}
	if !st.Complaint.HasBackendID() {
		s.logger.Warn("decision ignored: backend id not set", map[string]interface{}{
			"sessionId": sessionID,
			"action":    action,
		})
		return st, nil
	}

	st, err = s.applyAndSave(ctx, sessionID, SubmitStarted{})
	if err != nil {
		return st, err
	}

	backendID := st.Complaint.BackendID
	var callErr error
	if action == actionApprove {
		callErr = s.gateway.Approve(ctx, backendID, notes)
	} else {
		callErr = s.gateway.Reject(ctx, backendID, notes)
	}

	notice := noticeApproved
	if action == actionReject {
		notice = noticeRejected
	}
	if callErr != nil {
		s.logger.WithError(callErr).Error("decision submission failed", map[string]interface{}{
			"sessionId": sessionID,
			"action":    action,
			"backendId": backendID,
		})
		if action == actionApprove {
			notice = noticeApproveFailed
		} else {
			notice = noticeRejectFailed
		}
	}

	// Rebuild from the stored snapshot: the detached similar merge may
	// have landed while the backend call was in flight.
	st, err = s.applyAndSave(ctx, sessionID, SubmitFinished{Notice: notice})
	if err != nil {
		return st, err
	}

	if callErr == nil {
		s.publishDecision(DecisionEvent{
			SessionID:   sessionID,
			ComplaintID: st.Complaint.ID,
			BackendID:   backendID,
			Action:      action,
			Notes:       notes,
			DecidedAt:   time.Now().UTC(),
		})
	}

	return st, nil
}

// loadSimilar is the detached similar-complaints fetch. Failure degrades
// to an empty list and never touches the session error field.
func (s *Service) loadSimilar(sessionID string, backendID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SimilarTimeout)
	similar, err := s.gateway.FindSimilar(ctx, backendID, s.cfg.SimilarLimit)
	cancel()
	if err != nil {
		s.logger.WithError(err).Warn("similar complaints fetch failed, continuing with empty list", map[string]interface{}{
			"sessionId": sessionID,
			"backendId": backendID,
		})
		similar = nil
	}

	// The fetch context may already be past its deadline when the fetch
	// itself timed out; the merge gets its own.
	mergeCtx, mergeCancel := context.WithTimeout(context.Background(), s.cfg.SimilarTimeout)
	defer mergeCancel()
	if _, err := s.applyAndSave(mergeCtx, sessionID, SimilarLoaded{Similar: similar}); err != nil {
		s.logger.WithError(err).Warn("failed to merge similar complaints", map[string]interface{}{
			"sessionId": sessionID,
		})
	}
}

func (s *Service) publishDecision(e DecisionEvent) {
	if s.audit == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.audit.PublishDecision(ctx, e); err != nil {
			metrics.AuditEventsPublished.WithLabelValues("error").Inc()
			s.logger.WithError(err).Warn("decision event publish failed", map[string]interface{}{
				"sessionId": e.SessionID,
				"action":    e.Action,
			})
			return
		}
		metrics.AuditEventsPublished.WithLabelValues("success").Inc()
	}()
}

// applyAndSave is the one atomic load-apply-save update path for an
// existing session.
func (s *Service) applyAndSave(ctx context.Context, sessionID string, e Event) (domain.WorkflowState, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	st, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return st, err
	}
	st = s.apply(st, e)
	if err := s.store.Save(ctx, sessionID, st); err != nil {
		return st, err
	}
	return st, nil
}

func (s *Service) apply(st domain.WorkflowState, e Event) domain.WorkflowState {
	metrics.WorkflowTransitions.WithLabelValues(e.Name()).Inc()
	return Reduce(st, e)
}
