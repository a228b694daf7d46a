package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaint-console/internal/common/config"
	"complaint-console/internal/common/logger"
)

func newTestAssistant(t *testing.T, baseURL string) *Client {
	t.Helper()
	return New(config.AssistantConfig{
		Enabled:     true,
		BaseURL:     baseURL,
		APIKey:      "test-key",
		Timeout:     5000,
		MaxTokens:   256,
		Temperature: 0.3,
	}, logger.NewTestLogger(t))
}

func TestAsk(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotPrompt = body["prompt"].(string)
		assert.EqualValues(t, 256, body["max_tokens"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": "Dolandırıcılık vakalarında ilk adım kartı bloke etmektir."})
	}))
	defer srv.Close()

	c := newTestAssistant(t, srv.URL)

	reply, err := c.Ask(context.Background(), "sess-1", "Dolandırıcılık şüphesinde ne yapmalıyım?")
	require.NoError(t, err)

	assert.Equal(t, "Dolandırıcılık vakalarında ilk adım kartı bloke etmektir.", reply)
	assert.Contains(t, gotPrompt, "operator: Dolandırıcılık şüphesinde ne yapmalıyım?")
	assert.True(t, strings.HasPrefix(gotPrompt, systemPrompt))
}

func TestAskHistoryGrows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "yanıt"})
	}))
	defer srv.Close()

	c := newTestAssistant(t, srv.URL)

	_, err := c.Ask(context.Background(), "sess-1", "ilk soru")
	require.NoError(t, err)
	_, err = c.Ask(context.Background(), "sess-1", "ikinci soru")
	require.NoError(t, err)

	history := c.History("sess-1")
	require.Len(t, history, 4)
	assert.Equal(t, Message{Role: RoleOperator, Text: "ilk soru"}, history[0])
	assert.Equal(t, Message{Role: RoleAssistant, Text: "yanıt"}, history[1])
	assert.Equal(t, Message{Role: RoleOperator, Text: "ikinci soru"}, history[2])

	assert.Empty(t, c.History("sess-2"))
}

func TestAskSecondTurnCarriesTranscript(t *testing.T) {
	var lastPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		lastPrompt = body["prompt"].(string)
		json.NewEncoder(w).Encode(map[string]string{"text": "yanıt"})
	}))
	defer srv.Close()

	c := newTestAssistant(t, srv.URL)

	_, err := c.Ask(context.Background(), "sess-1", "ilk soru")
	require.NoError(t, err)
	_, err = c.Ask(context.Background(), "sess-1", "ikinci soru")
	require.NoError(t, err)

	assert.Contains(t, lastPrompt, "Conversation so far:")
	assert.Contains(t, lastPrompt, "operator: ilk soru")
	assert.Contains(t, lastPrompt, "assistant: yanıt")
}

func TestAskEmptyReplyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "   "})
	}))
	defer srv.Close()

	c := newTestAssistant(t, srv.URL)

	reply, err := c.Ask(context.Background(), "sess-1", "soru")
	require.NoError(t, err)
	assert.Equal(t, fallbackReply, reply)
}

func TestAskRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestAssistant(t, srv.URL)

	_, err := c.Ask(context.Background(), "sess-1", "soru")
	require.Error(t, err)
	assert.Empty(t, c.History("sess-1"))
}

func TestReset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "yanıt"})
	}))
	defer srv.Close()

	c := newTestAssistant(t, srv.URL)

	_, err := c.Ask(context.Background(), "sess-1", "soru")
	require.NoError(t, err)
	require.NotEmpty(t, c.History("sess-1"))

	c.Reset("sess-1")
	assert.Empty(t, c.History("sess-1"))
}
