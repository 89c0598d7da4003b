package domain

import "encoding/json"

const (
	// DefaultLanguageCode is applied when the caller leaves the language empty.
	DefaultLanguageCode = "en"

	// FailureMessage is the fixed human-readable text of every failure result.
	FailureMessage = "Failed to detect intent"
)

// Query is a single utterance addressed to the intent service.
// It is built per call and never persisted.
type Query struct {
	ProjectID    string
	SessionID    string
	Text         string
	LanguageCode string
}

// NewQuery validates the inputs and applies the default language.
// Empty project ids and empty text are rejected with ErrInvalidArgument.
// Whitespace is content: it is sent on and the service decides what it means.
func NewQuery(projectID, sessionID, text, languageCode string) (Query, error) {
	if projectID == "" {
		return Query{}, invalid("project_id", "must be provided")
	}
	if text == "" {
		return Query{}, invalid("text", "must be a non-empty string")
	}
	if languageCode == "" {
		languageCode = DefaultLanguageCode
	}
	return Query{
		ProjectID:    projectID,
		SessionID:    sessionID,
		Text:         text,
		LanguageCode: languageCode,
	}, nil
}

// SessionPath is the session reference understood by Dialogflow.
func (q Query) SessionPath() string {
	return "projects/" + q.ProjectID + "/agent/sessions/" + q.SessionID
}

// IntentFailure is the payload returned in place of a remote error.
type IntentFailure struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// IntentResult holds exactly one of a service payload or a failure.
type IntentResult struct {
	Payload map[string]any
	Failure *IntentFailure
}

// IntentSucceeded wraps a service reply.
func IntentSucceeded(payload map[string]any) IntentResult {
	if payload == nil {
		payload = map[string]any{}
	}
	return IntentResult{Payload: payload}
}

// IntentFailed converts a remote error into a failure result.
func IntentFailed(err error) IntentResult {
	return IntentResult{Failure: &IntentFailure{Error: err.Error(), Message: FailureMessage}}
}

// OK reports whether the result carries a service payload.
func (r IntentResult) OK() bool {
	return r.Failure == nil
}

// AsMap flattens the result into the plain mapping handed to callers.
func (r IntentResult) AsMap() map[string]any {
	if r.Failure != nil {
		return map[string]any{
			"error":   r.Failure.Error,
			"message": r.Failure.Message,
		}
	}
	if r.Payload == nil {
		return map[string]any{}
	}
	return r.Payload
}

func (r IntentResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.AsMap())
}
