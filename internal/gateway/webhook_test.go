package gateway

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/northbridge-support/triage/internal/bus"
)

type fakeBus struct {
	published []struct {
		subject string
		data    interface{}
	}
	failPublish bool
}

func (f *fakeBus) Publish(subject string, data interface{}) error {
	if f.failPublish {
		return assertErr
	}
	f.published = append(f.published, struct {
		subject string
		data    interface{}
	}{subject, data})
	return nil
}
func (f *fakeBus) Subscribe(subject string, handler func(string, []byte)) error { return nil }
func (f *fakeBus) Close()                                                      {}

var assertErr = errors.New("publish failed")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookAcceptsValidSignature(t *testing.T) {
	secret := []byte("super-secret-value-16plus")
	fb := &fakeBus{}
	h := NewHandler(string(secret), fb, discardLogger())

	body := []byte(`{"event_type":"incident.created","ticket_id":"INC001","title":"t","priority":"1 - Critical"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/servicenow", bytes.NewReader(body))
	req.Header.Set("X-ServiceNow-Signature", sign(secret, body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, fb.published, 1)
	require.Equal(t, bus.SubjectTicketIngested, fb.published[0].subject)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	h := NewHandler("super-secret-value-16plus", &fakeBus{}, discardLogger())
	body := []byte(`{"event_type":"incident.created","ticket_id":"INC001"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/servicenow", bytes.NewReader(body))
	req.Header.Set("X-ServiceNow-Signature", "deadbeef")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookRejectsMissingSignature(t *testing.T) {
	h := NewHandler("super-secret-value-16plus", &fakeBus{}, discardLogger())
	body := []byte(`{"event_type":"incident.created"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/servicenow", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookRejectsUnsupportedEventType(t *testing.T) {
	secret := []byte("super-secret-value-16plus")
	h := NewHandler(string(secret), &fakeBus{}, discardLogger())
	body := []byte(`{"event_type":"incident.deleted","ticket_id":"INC001"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook/servicenow", bytes.NewReader(body))
	req.Header.Set("X-ServiceNow-Signature", sign(secret, body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
