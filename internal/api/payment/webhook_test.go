package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beatdeck/internal/app/analytics"
)

const webhookSecret = "whsec_test"

func signPayload(secret string, t time.Time, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", t.Unix(), body)
	return fmt.Sprintf("t=%d,v1=%s", t.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(h *WebhookHandler, signature, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, WebhookPath, strings.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWebhookHandler_ValidSignature(t *testing.T) {
	bus := analytics.NewBus()
	defer bus.Close()
	collector := analytics.NewCollector()
	bus.Subscribe(collector)

	h := NewWebhookHandler(webhookSecret, bus)
	now := time.Now()
	h.now = func() time.Time { return now }

	body := `{"id":"evt_1","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","status":"succeeded"}}}`
	rec := postWebhook(h, signPayload(webhookSecret, now, body), body)

	assert.Equal(t, http.StatusOK, rec.Code)

	require.Eventually(t, func() bool {
		return len(collector.Events()) == 1
	}, time.Second, 10*time.Millisecond)
	fields := collector.Events()[0].Fields
	assert.Equal(t, "webhook_payment_intent.succeeded", fields["action"])
	assert.Equal(t, "pi_1", fields["payment_intent_id"])
}

func TestWebhookHandler_Rejections(t *testing.T) {
	now := time.Now()
	body := `{"id":"evt_1","type":"payment_intent.succeeded"}`

	tests := []struct {
		name      string
		signature string
	}{
		{name: "missing header", signature: ""},
		{name: "wrong secret", signature: signPayload("whsec_other", now, body)},
		{name: "tampered body", signature: signPayload(webhookSecret, now, `{"id":"evt_2"}`)},
		{name: "stale timestamp", signature: signPayload(webhookSecret, now.Add(-10*time.Minute), body)},
		{name: "malformed header", signature: "v1=deadbeef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWebhookHandler(webhookSecret, nil)
			h.now = func() time.Time { return now }

			rec := postWebhook(h, tt.signature, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestWebhookHandler_MethodNotAllowed(t *testing.T) {
	h := NewWebhookHandler(webhookSecret, nil)
	req := httptest.NewRequest(http.MethodGet, WebhookPath, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
