package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaint-console/internal/common/config"
	"complaint-console/internal/common/database"
	"complaint-console/internal/common/logger"
	"complaint-console/internal/domain"
	"complaint-console/internal/gateway"
	"complaint-console/internal/session"
	"complaint-console/internal/workflow"
)

type stubGateway struct {
	submitErr   error
	rejectCalls int32
}

func (g *stubGateway) Submit(context.Context, string) (*gateway.AnalysisResponse, error) {
	if g.submitErr != nil {
		return nil, g.submitErr
	}
	return &gateway.AnalysisResponse{
		ID:                 42,
		MaskedText:         "Kartımdan izinsiz çekim yapıldı.",
		CategoryCode:       "DOLANDIRICILIK",
		PriorityCode:       "YUKSEK",
		SuggestedReply:     "İşleminiz incelemeye alınmıştır.",
		CategoryConfidence: 0.9,
		UrgencyConfidence:  0.7,
	}, nil
}

func (g *stubGateway) FindSimilar(context.Context, int64, int) ([]domain.SimilarComplaint, error) {
	return []domain.SimilarComplaint{{ID: 7, SimilarityScore: 0.8}}, nil
}

func (g *stubGateway) Edit(ctx context.Context, _ int64, _, _ string) (*gateway.AnalysisResponse, error) {
	return g.Submit(ctx, "")
}

func (g *stubGateway) Approve(context.Context, int64, string) error { return nil }

func (g *stubGateway) Reject(context.Context, int64, string) error {
	atomic.AddInt32(&g.rejectCalls, 1)
	return nil
}

func newTestServer(t *testing.T, gw workflow.Gateway) http.Handler {
	t.Helper()

	mr := miniredis.RunT(t)
	client := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { client.Close() })

	// NoOp logger: the detached similar fetch may outlive the test.
	log := logger.NewNoOpLogger()
	store := session.NewRedisStore(client, time.Hour, log)
	reviews := workflow.NewService(gw, store, nil, workflow.Config{SimilarLimit: 5, SimilarTimeout: time.Second}, log)

	srv := New(config.ServerConfig{Address: ":0"}, reviews, nil, log)
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createReview(t *testing.T, h http.Handler) (string, reviewResponse) {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/api/reviews", map[string]string{
		"customerName": "Ayşe Yılmaz",
		"text":         "Kartımdan izinsiz para çekildi.",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp reviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID, resp
}

func TestCreateReview(t *testing.T) {
	h := newTestServer(t, &stubGateway{})

	_, resp := createReview(t, h)

	assert.Equal(t, domain.PhaseReady, resp.State.Phase)
	assert.Equal(t, int64(42), resp.State.Complaint.BackendID)
	assert.Equal(t, domain.SegmentStandard, resp.State.Complaint.CustomerSegment)
	assert.NotEmpty(t, resp.State.Complaint.ID)
	require.NotNil(t, resp.State.Analysis)
	assert.Equal(t, domain.CategoryFraudUnauthorizedTx, resp.State.Analysis.Category)
	assert.Equal(t, "İşleminiz incelemeye alınmıştır.", resp.State.Draft)
}

func TestCreateReviewValidation(t *testing.T) {
	h := newTestServer(t, &stubGateway{})

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "missing text", body: map[string]string{"customerName": "Ali"}},
		{name: "unknown segment", body: map[string]string{"text": "şikayet", "customerSegment": "DIAMOND"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/reviews", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateReviewBackendFailure(t *testing.T) {
	h := newTestServer(t, &stubGateway{submitErr: &gateway.RemoteError{Op: "submit", Status: 500}})

	rec := doJSON(t, h, http.MethodPost, "/api/reviews", map[string]string{"text": "şikayet"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp reviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.PhaseIdle, resp.State.Phase)
	assert.NotEmpty(t, resp.State.Error)
}

func TestGetReview(t *testing.T) {
	h := newTestServer(t, &stubGateway{})
	sessionID, _ := createReview(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/reviews/"+sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp reviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, sessionID, resp.SessionID)
	assert.Equal(t, domain.PhaseReady, resp.State.Phase)
}

func TestGetReviewUnknownSession(t *testing.T) {
	h := newTestServer(t, &stubGateway{})

	rec := doJSON(t, h, http.MethodGet, "/api/reviews/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateDraft(t *testing.T) {
	h := newTestServer(t, &stubGateway{})
	sessionID, _ := createReview(t, h)

	rec := doJSON(t, h, http.MethodPut, "/api/reviews/"+sessionID+"/draft", map[string]string{"text": "kendi yanıtım"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp reviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "kendi yanıtım", resp.State.Draft)
}

func TestApprove(t *testing.T) {
	h := newTestServer(t, &stubGateway{})
	sessionID, _ := createReview(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/reviews/"+sessionID+"/approve", map[string]string{"notes": "müşteri arandı"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp reviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.PhaseReady, resp.State.Phase)
	assert.Equal(t, "Şikayet başarıyla çözüldü ve yanıt gönderildi.", resp.State.Notice)
}

func TestRejectUnconfirmed(t *testing.T) {
	gw := &stubGateway{}
	h := newTestServer(t, gw)
	sessionID, _ := createReview(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/reviews/"+sessionID+"/reject",
		map[string]interface{}{"notes": "geçersiz", "confirmed": false})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int32(0), atomic.LoadInt32(&gw.rejectCalls))

	var resp reviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.State.Notice)
}

func TestRejectConfirmed(t *testing.T) {
	gw := &stubGateway{}
	h := newTestServer(t, gw)
	sessionID, _ := createReview(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/reviews/"+sessionID+"/reject",
		map[string]interface{}{"notes": "geçersiz", "confirmed": true})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int32(1), atomic.LoadInt32(&gw.rejectCalls))

	var resp reviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Şikayet reddedildi.", resp.State.Notice)
}

func TestHold(t *testing.T) {
	h := newTestServer(t, &stubGateway{})
	sessionID, _ := createReview(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/reviews/"+sessionID+"/hold", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp reviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Şikayet beklemede, kayıt üzerinde işlem yapılmadı.", resp.State.Notice)

	rec = doJSON(t, h, http.MethodGet, "/api/reviews/"+sessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = reviewResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.State.Notice)
}

func TestChatDisabled(t *testing.T) {
	h := newTestServer(t, &stubGateway{})
	sessionID, _ := createReview(t, h)

	rec := doJSON(t, h, http.MethodPost, "/api/reviews/"+sessionID+"/chat", map[string]string{"message": "soru"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, &stubGateway{})

	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
