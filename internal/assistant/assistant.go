// Package assistant proxies the operator's side-chat to the generative
// AI endpoint. Conversation history is held in memory per session; the
// backend call itself is stateless.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"complaint-console/internal/common/config"
	"complaint-console/internal/common/httpclient"
	"complaint-console/internal/common/logger"
	"complaint-console/internal/common/metrics"
)

const systemPrompt = "You are ComplaintOps Copilot, an advanced banking expert assistant. " +
	"Help the operator with deep policy questions or complex cases."

const fallbackReply = "Bu soruya şu anda yanıt veremiyorum, lütfen tekrar deneyin."

const (
	RoleOperator  = "operator"
	RoleAssistant = "assistant"
)

// Message is one chat exchange entry.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type Client struct {
	cfg    config.AssistantConfig
	http   *httpclient.Client
	logger logger.Logger

	mu      sync.Mutex
	history map[string][]Message
}

func New(cfg config.AssistantConfig, log logger.Logger) *Client {
	return &Client{
		cfg:     cfg,
		http:    httpclient.New(time.Duration(cfg.Timeout) * time.Millisecond),
		logger:  log.WithFields(map[string]interface{}{"component": "assistant"}),
		history: make(map[string][]Message),
	}
}

// Ask sends the operator's message with the session transcript and
// records both sides of the exchange in the in-memory history.
func (c *Client) Ask(ctx context.Context, sessionID, message string) (string, error) {
	prompt := c.buildPrompt(c.History(sessionID), message)

	requestBody := map[string]interface{}{
		"prompt":      prompt,
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
	}
	body, _ := json.Marshal(requestBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/api/ai/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.AssistantMessages.WithLabelValues("network_error").Inc()
		c.logger.WithError(err).Error("assistant endpoint unreachable", map[string]interface{}{"sessionId": sessionID})
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.AssistantMessages.WithLabelValues("remote_error").Inc()
		c.logger.Error("assistant endpoint returned error status", map[string]interface{}{
			"sessionId": sessionID,
			"status":    resp.StatusCode,
		})
		return "", fmt.Errorf("assistant endpoint returned status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		metrics.AssistantMessages.WithLabelValues("decode_error").Inc()
		return "", fmt.Errorf("decode assistant response: %w", err)
	}

	reply := strings.TrimSpace(apiResponse.Text)
	if reply == "" {
		reply = fallbackReply
	}

	c.record(sessionID, message, reply)
	metrics.AssistantMessages.WithLabelValues("success").Inc()
	return reply, nil
}

// History returns a copy of the session transcript.
func (c *Client) History(sessionID string) []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries := c.history[sessionID]
	out := make([]Message, len(entries))
	copy(out, entries)
	return out
}

// Reset drops the session transcript.
func (c *Client) Reset(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.history, sessionID)
}

func (c *Client) record(sessionID, question, reply string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history[sessionID] = append(c.history[sessionID],
		Message{Role: RoleOperator, Text: question},
		Message{Role: RoleAssistant, Text: reply},
	)
}

func (c *Client) buildPrompt(history []Message, message string) string {
	var parts []string
	parts = append(parts, systemPrompt)

	if len(history) > 0 {
		parts = append(parts, "\nConversation so far:")
		for _, m := range history {
			parts = append(parts, fmt.Sprintf("%s: %s", m.Role, m.Text))
		}
	}

	parts = append(parts, fmt.Sprintf("\noperator: %s", message))
	parts = append(parts, "\nassistant:")
	return strings.Join(parts, "\n")
}
