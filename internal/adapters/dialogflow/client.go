// Package dialogflow provides an adapter for the Dialogflow ES v2 REST API.
// It sends a single detectIntent request per query and hands the reply's
// queryResult back as an untyped mapping.
package dialogflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
	"github.com/ewilliams-labs/pennywise/internal/core/ports"
)

const defaultBaseURL = "https://dialogflow.googleapis.com"

// Client talks to the detectIntent endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// compile-time interface assertion
var _ ports.IntentDetector = (*Client)(nil)

type textInput struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode"`
}

type queryInput struct {
	Text textInput `json:"text"`
}

type detectIntentRequest struct {
	QueryInput queryInput `json:"queryInput"`
}

type detectIntentResponse struct {
	ResponseID  string         `json:"responseId"`
	QueryResult map[string]any `json:"queryResult"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewClient constructs a client. httpClient is expected to attach
// credentials (see NewAuthenticatedHTTPClient); nil uses http.DefaultClient.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}

// DetectIntent posts the utterance to the query's session and returns the
// queryResult object. Numbers are kept as json.Number so the payload
// re-encodes exactly as received.
func (c *Client) DetectIntent(ctx context.Context, q domain.Query) (map[string]any, error) {
	payload := detectIntentRequest{
		QueryInput: queryInput{
			Text: textInput{Text: q.Text, LanguageCode: q.LanguageCode},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("dialogflow: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/projects/%s/agent/sessions/%s:detectIntent",
		c.baseURL, url.PathEscape(q.ProjectID), url.PathEscape(q.SessionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("dialogflow: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dialogflow: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("dialogflow: %s (status %d): %s", apiErr.Error.Status, resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("dialogflow: unexpected status %d", resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var parsed detectIntentResponse
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("dialogflow: decode response: %w", err)
	}
	if parsed.QueryResult == nil {
		return nil, fmt.Errorf("dialogflow: response has no queryResult")
	}

	return parsed.QueryResult, nil
}
