package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
)

// sessionHeader lets clients keep a conversation on one agent session
// without repeating the id in every body.
const sessionHeader = "X-Session-ID"

type dialogflowQueryRequest struct {
	Text         string `json:"text"`
	SessionID    string `json:"session_id"`
	LanguageCode string `json:"language_code"`
}

type dialogflowQueryResponse struct {
	QueryText          string              `json:"query_text"`
	SessionID          string              `json:"session_id"`
	DialogflowResponse domain.IntentResult `json:"dialogflow_response"`
}

// DialogflowQuery handles POST /dialogflow-query
//
// Fields may come from a JSON body or the query string; the body wins. A
// session id may also be sent as X-Session-ID. Requests without one get a
// fresh random session so unrelated callers never share agent context.
func (h *Handler) DialogflowQuery(w http.ResponseWriter, r *http.Request) {
	var req dialogflowQueryRequest
	if isJSONContentType(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	q := r.URL.Query()
	if req.Text == "" {
		req.Text = q.Get("text")
	}
	if req.SessionID == "" {
		req.SessionID = q.Get("session_id")
	}
	if req.SessionID == "" {
		req.SessionID = r.Header.Get(sessionHeader)
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if req.LanguageCode == "" {
		req.LanguageCode = q.Get("language_code")
	}
	if req.LanguageCode == "" {
		req.LanguageCode = h.opts.LanguageCode
	}

	result, err := h.intent.DetectIntent(r.Context(), h.opts.ProjectID, req.SessionID, req.Text, req.LanguageCode)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("dialogflow query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Error with Dialogflow interaction: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dialogflowQueryResponse{
		QueryText:          req.Text,
		SessionID:          req.SessionID,
		DialogflowResponse: result,
	})
}
