package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"complaint-console/internal/domain"
	"complaint-console/internal/session"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

type createReviewRequest struct {
	ComplaintID     string                 `json:"complaintId,omitempty"`
	CustomerName    string                 `json:"customerName"`
	CustomerSegment domain.CustomerSegment `json:"customerSegment,omitempty"`
	Text            string                 `json:"text"`
}

type draftRequest struct {
	Text string `json:"text"`
}

type editRequest struct {
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

type decisionRequest struct {
	Notes     string `json:"notes,omitempty"`
	Confirmed bool   `json:"confirmed,omitempty"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type reviewResponse struct {
	SessionID string               `json:"sessionId"`
	State     domain.WorkflowState `json:"state"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	segment := req.CustomerSegment
	if segment == "" {
		segment = domain.SegmentStandard
	}
	if !segment.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown customer segment %q", req.CustomerSegment))
		return
	}

	complaintID := req.ComplaintID
	if complaintID == "" {
		complaintID = "CMP-" + uuid.NewString()
	}

	sessionID := uuid.NewString()
	complaint := domain.Complaint{
		ID:              complaintID,
		Timestamp:       time.Now().UTC(),
		CustomerName:    req.CustomerName,
		CustomerSegment: segment,
		OriginalText:    req.Text,
	}

	state, err := s.reviews.StartReview(r.Context(), sessionID, complaint)
	if err != nil {
		s.logger.WithError(err).Error("failed to start review", map[string]interface{}{"sessionId": sessionID})
		writeError(w, http.StatusInternalServerError, "failed to start review")
		return
	}

	writeJSON(w, http.StatusCreated, reviewResponse{SessionID: sessionID, State: state})
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	state, err := s.reviews.Get(r.Context(), sessionID)
	if err != nil {
		s.writeSessionError(w, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{SessionID: sessionID, State: state})
}

func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	state, err := s.reviews.UpdateDraft(r.Context(), sessionID, req.Text)
	if err != nil {
		s.writeSessionError(w, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{SessionID: sessionID, State: state})
}

func (s *Server) handleSubmitEdit(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	state, err := s.reviews.SubmitEdit(r.Context(), sessionID, req.Text, req.Reason)
	if err != nil {
		s.writeSessionError(w, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{SessionID: sessionID, State: state})
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	state, err := s.reviews.Approve(r.Context(), sessionID, req.Notes)
	if err != nil {
		s.writeSessionError(w, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{SessionID: sessionID, State: state})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	state, err := s.reviews.Reject(r.Context(), sessionID, req.Notes, req.Confirmed)
	if err != nil {
		s.writeSessionError(w, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{SessionID: sessionID, State: state})
}

func (s *Server) handleHold(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	state, err := s.reviews.Hold(r.Context(), sessionID)
	if err != nil {
		s.writeSessionError(w, sessionID, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{SessionID: sessionID, State: state})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, "chat assistant is disabled")
		return
	}

	sessionID := r.PathValue("id")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.assistant.Ask(r.Context(), sessionID, req.Message)
	if err != nil {
		writeError(w, http.StatusBadGateway, "assistant is unavailable, please retry")
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeSessionError(w http.ResponseWriter, sessionID string, err error) {
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, http.StatusNotFound, "unknown or expired session")
		return
	}
	s.logger.WithError(err).Error("request failed", map[string]interface{}{"sessionId": sessionID})
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: status, Message: message})
}
