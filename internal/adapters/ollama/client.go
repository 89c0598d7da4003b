// Package ollama provides an intent detector backed by a local Ollama model.
// It asks the model to classify a finance utterance and returns the JSON
// object the model produced, untouched, as the query result.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
	"github.com/ewilliams-labs/pennywise/internal/core/ports"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.1:8b"
)

const systemPrompt = "You are the intent classifier of a personal-finance assistant. Classify the user's message and reply with ONLY a JSON object, no prose.\n\nFields:\nqueryText: the user's message verbatim.\nlanguageCode: the language code you were given.\nintent: an object with displayName, one of log.expense, view.expenses, set.savings_goal, budgeting.advice, savings.tips, fallback.\nintentDetectionConfidence: a number from 0.0 to 1.0.\nparameters: extracted values such as amount, currency, category, date, goal_name.\nfulfillmentText: one short sentence answering the user."

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ ports.IntentDetector = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// NewClient builds a client. The http.Client carries no timeout of its own;
// callers bound the call through the context.
func NewClient(baseURL, model string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{},
	}
}

func (c *Client) DetectIntent(ctx context.Context, q domain.Query) (map[string]any, error) {
	payload := chatRequest{
		Model:  c.model,
		Stream: false,
		Format: "json",
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(q)},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ollama: decode response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("ollama: %s", parsed.Error)
	}

	if strings.TrimSpace(parsed.Message.Content) == "" {
		return nil, fmt.Errorf("ollama: empty response")
	}

	dec := json.NewDecoder(strings.NewReader(parsed.Message.Content))
	dec.UseNumber()
	var result map[string]any
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("ollama: decode intent: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("ollama: intent is not a JSON object")
	}

	return result, nil
}

func userPrompt(q domain.Query) string {
	return fmt.Sprintf("languageCode: %s\nsession: %s\nmessage: %s", q.LanguageCode, q.SessionID, q.Text)
}
