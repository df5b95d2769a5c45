// Package gateway implements the ingestion webhook: HMAC-SHA256
// signature verification, event_type allow-listing, and publication
// onto the bus for asynchronous processing (spec §1, §6).
package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/northbridge-support/triage/internal/bus"
)

// allowedEventTypes mirrors original_source's ALLOWED_EVENT_TYPES set.
var allowedEventTypes = map[string]bool{
	"incident.created":  true,
	"incident.closed":   true,
	"incident.resolved": true,
	"task.created":      true,
	"task.closed":       true,
	"task.resolved":     true,
}

// incomingPayload is the JSON shape documented in spec §6.
type incomingPayload struct {
	EventType   string            `json:"event_type"`
	TicketID    string            `json:"ticket_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	CallerID    string            `json:"caller_id"`
	DueDate     *time.Time        `json:"due_date"`
	Category    string            `json:"category"`
	CreatedAt   *time.Time        `json:"created_at"`
	Metadata    map[string]string `json:"metadata"`
}

// Handler is the ServiceNow webhook HTTP handler.
type Handler struct {
	secret []byte
	bus    bus.Client
	logger *slog.Logger
}

func NewHandler(secret string, b bus.Client, logger *slog.Logger) *Handler {
	return &Handler{secret: []byte(secret), bus: b, logger: logger}
}

// ServeHTTP implements POST /webhook/servicenow.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	sig := r.Header.Get("X-ServiceNow-Signature")
	if sig == "" || !h.verifySignature(body, sig) {
		http.Error(w, "missing or invalid signature", http.StatusForbidden)
		return
	}

	var payload incomingPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}
	if !allowedEventTypes[payload.EventType] {
		http.Error(w, "unsupported event_type", http.StatusBadRequest)
		return
	}

	webhookID := uuid.NewString()
	event := bus.TicketIngestedEvent{
		WebhookID:   webhookID,
		EventType:   payload.EventType,
		TicketID:    payload.TicketID,
		Title:       payload.Title,
		Description: payload.Description,
		Priority:    payload.Priority,
		Status:      payload.Status,
		CallerID:    payload.CallerID,
		DueDate:     payload.DueDate,
		Category:    payload.Category,
		CreatedAt:   payload.CreatedAt,
		Metadata:    payload.Metadata,
	}

	if err := h.bus.Publish(bus.SubjectTicketIngested, event); err != nil {
		h.logger.Error("failed to publish ticket ingested event", "webhook_id", webhookID, "error", err)
		http.Error(w, "failed to enqueue event", http.StatusInternalServerError)
		return
	}

	h.logger.Info("webhook accepted", "webhook_id", webhookID, "ticket_id", payload.TicketID, "event_type", payload.EventType)
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"webhook_id":"` + webhookID + `"}`))
}

// verifySignature implements HMAC-SHA256 verification over the raw
// request body with a constant-time comparison, grounded in
// original_source/backend/app/api/routes/webhooks.py's
// hmac.compare_digest usage.
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
