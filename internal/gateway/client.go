package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"complaint-console/internal/common/config"
	"complaint-console/internal/common/httpclient"
	"complaint-console/internal/common/logger"
	"complaint-console/internal/common/metrics"
	"complaint-console/internal/domain"
)

const (
	opSubmit      = "submit"
	opFindSimilar = "findSimilar"
	opEdit        = "edit"
	opApprove     = "approve"
	opReject      = "reject"

	outcomeSuccess  = "success"
	outcomeRemote   = "remote_error"
	outcomeNetwork  = "network_error"
	outcomeContract = "contract_error"
)

type Client struct {
	baseURL string
	userID  string
	http    *httpclient.Client
	logger  logger.Logger
}

func NewClient(cfg config.GatewayConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		userID:  cfg.UserID,
		http:    httpclient.New(cfg.GatewayTimeout()),
		logger:  log.WithFields(map[string]interface{}{"component": "gateway"}),
	}
}

// Submit posts the free-text complaint body for analysis.
func (c *Client) Submit(ctx context.Context, text string) (*AnalysisResponse, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/api/complaints", submitRequest{Text: text})
	if err != nil {
		return nil, &NetworkError{Op: opSubmit, Err: err}
	}
	return c.doAnalysis(opSubmit, req)
}

// FindSimilar fetches complaints textually close to the given one.
// Callers treat any failure as "no similar complaints"; that policy
// lives in the workflow, not here.
func (c *Client) FindSimilar(ctx context.Context, complaintID int64, limit int) ([]domain.SimilarComplaint, error) {
	path := fmt.Sprintf("/api/complaints/%d/similar?limit=%d", complaintID, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &NetworkError{Op: opFindSimilar, Err: err}
	}

	body, err := c.do(opFindSimilar, req)
	if err != nil {
		return nil, err
	}

	var env similarEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ContractError{Op: opFindSimilar, Violations: []string{err.Error()}}
	}
	return env.SimilarComplaints, nil
}

// Edit submits the operator's reworked reply and returns the backend's
// refreshed analysis.
func (c *Client) Edit(ctx context.Context, complaintID int64, text, reason string) (*AnalysisResponse, error) {
	path := fmt.Sprintf("/api/complaints/%d/edit", complaintID)
	req, err := c.newJSONRequest(ctx, http.MethodPatch, path, editRequest{CustomerReplyDraft: text, EditReason: reason})
	if err != nil {
		return nil, &NetworkError{Op: opEdit, Err: err}
	}
	req.Header.Set("X-User-Id", c.userID)
	return c.doAnalysis(opEdit, req)
}

// Approve marks the complaint resolved on the backend.
func (c *Client) Approve(ctx context.Context, complaintID int64, notes string) error {
	return c.decide(ctx, opApprove, complaintID, notes)
}

// Reject declines the suggested handling on the backend.
func (c *Client) Reject(ctx context.Context, complaintID int64, notes string) error {
	return c.decide(ctx, opReject, complaintID, notes)
}

func (c *Client) decide(ctx context.Context, op string, complaintID int64, notes string) error {
	path := fmt.Sprintf("/api/complaints/%d/%s", complaintID, op)
	req, err := c.newJSONRequest(ctx, http.MethodPost, path, decisionRequest{Notes: notes})
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	_, err = c.do(op, req)
	return err
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload interface{}) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// doAnalysis runs a request whose success body is an AnalysisResponse,
// validating the payload shape before decoding.
func (c *Client) doAnalysis(op string, req *http.Request) (*AnalysisResponse, error) {
	body, err := c.do(op, req)
	if err != nil {
		return nil, err
	}

	if err := validateAnalysisPayload(op, body); err != nil {
		metrics.GatewayRequests.WithLabelValues(op, outcomeContract).Inc()
		c.logger.WithError(err).Error("backend payload violates the analysis contract", map[string]interface{}{
			"operation": op,
		})
		return nil, err
	}

	var resp AnalysisResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ContractError{Op: op, Violations: []string{err.Error()}}
	}
	return &resp, nil
}

// do executes one request and maps failures to the gateway taxonomy:
// transport failure -> NetworkError, non-2xx -> RemoteError.
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.GatewayRequests.WithLabelValues(op, outcomeNetwork).Inc()
		c.logger.WithError(err).Error("backend unreachable", map[string]interface{}{"operation": op})
		return nil, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.GatewayRequests.WithLabelValues(op, outcomeRemote).Inc()
		c.logger.Error("backend returned error status", map[string]interface{}{
			"operation": op,
			"status":    resp.StatusCode,
		})
		return nil, &RemoteError{Op: op, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(op, outcomeNetwork).Inc()
		return nil, &NetworkError{Op: op, Err: err}
	}

	metrics.GatewayRequests.WithLabelValues(op, outcomeSuccess).Inc()
	return body, nil
}
