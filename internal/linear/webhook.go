package linear

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw body.
const SignatureHeader = "Linear-Signature"

type WebhookHandler struct {
	importer *Importer
	secret   string
	logger   *zap.Logger
}

type WebhookPayload struct {
	Action      string          `json:"action"`
	Type        string          `json:"type"`
	Data        json.RawMessage `json:"data"`
	UpdatedFrom json.RawMessage `json:"updatedFrom,omitempty"`
}

// NewWebhookHandler returns the webhook endpoint. When secret is set every
// request must carry a valid Linear-Signature.
func NewWebhookHandler(importer *Importer, secret string, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{importer: importer, secret: secret, logger: logger}
}

// ServeHTTP records an issue that moved to a completed state as evidence
// for the project named by the project_id query parameter.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Warn("Failed to read Linear webhook body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if h.secret != "" && !ValidSignature(h.secret, body, r.Header.Get(SignatureHeader)) {
		h.logger.Warn("Linear signature verification failed")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Warn("Failed to parse Linear webhook payload", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.logger.Debug("Received Linear webhook", zap.String("action", payload.Action), zap.String("type", payload.Type))

	if payload.Type != "Issue" || payload.Action != "update" || !payload.stateChanged() {
		w.WriteHeader(http.StatusOK)
		return
	}

	var issue Issue
	if err := json.Unmarshal(payload.Data, &issue); err != nil {
		h.logger.Warn("Failed to parse Linear issue data", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if issue.State.Type != "completed" {
		w.WriteHeader(http.StatusOK)
		return
	}

	created, err := h.importer.Record(r.Context(), projectID, &issue)
	if err != nil {
		h.logger.Error("Failed to record Linear evidence", zap.String("issue_id", issue.ID), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if created {
		h.logger.Info("Recorded evidence from completed Linear issue",
			zap.String("project_id", projectID),
			zap.String("issue_id", issue.ID),
			zap.String("title", issue.Title),
		)
	}
	w.WriteHeader(http.StatusOK)
}

// stateChanged reports whether the update moved the issue between workflow
// states. Linear lists the previous values of changed fields in updatedFrom.
func (p WebhookPayload) stateChanged() bool {
	if len(p.UpdatedFrom) == 0 {
		return false
	}
	var previous map[string]json.RawMessage
	if err := json.Unmarshal(p.UpdatedFrom, &previous); err != nil {
		return false
	}
	_, ok := previous["stateId"]
	return ok
}

// ValidSignature checks signature against the HMAC-SHA256 of body.
func ValidSignature(secret string, body []byte, signature string) bool {
	got, err := hex.DecodeString(signature)
	if err != nil || len(got) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
