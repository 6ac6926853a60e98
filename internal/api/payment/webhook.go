package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"beatdeck/internal/app/analytics"
)

// WebhookPath is where the processor delivers events.
const WebhookPath = "/webhook/stripe"

const (
	maxWebhookBody   = 1 << 20
	defaultTolerance = 5 * time.Minute
)

// webhookEvent is the subset of the processor's event envelope we read.
type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID       string            `json:"id"`
			Status   string            `json:"status"`
			Amount   int64             `json:"amount"`
			Currency string            `json:"currency"`
			Metadata map[string]string `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// WebhookHandler verifies and records processor webhook events.
type WebhookHandler struct {
	secret    string
	tolerance time.Duration
	bus       *analytics.Bus
	now       func() time.Time
}

// NewWebhookHandler creates a webhook handler verifying signatures with
// secret. bus may be nil.
func NewWebhookHandler(secret string, bus *analytics.Bus) *WebhookHandler {
	return &WebhookHandler{
		secret:    secret,
		tolerance: defaultTolerance,
		bus:       bus,
		now:       time.Now,
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := h.verify(r.Header.Get("Stripe-Signature"), body); err != nil {
		zlog.Warn().Err(err).Msg("webhook: rejected event")
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	zlog.Info().Msgf("webhook: received %s (%s)", event.Type, event.ID)
	h.record(event)
	w.WriteHeader(http.StatusOK)
}

// verify checks the v1 signature scheme: HMAC-SHA256 of "<t>.<body>"
// keyed with the endpoint secret, carried in the Stripe-Signature header
// alongside the timestamp.
func (h *WebhookHandler) verify(header string, body []byte) error {
	if header == "" {
		return errors.New("missing signature header")
	}

	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return errors.Wrap(err, "invalid timestamp")
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, v)
		}
	}
	if timestamp == 0 || len(signatures) == 0 {
		return errors.New("malformed signature header")
	}

	age := h.now().Sub(time.Unix(timestamp, 0))
	if age > h.tolerance || age < -h.tolerance {
		return errors.New("timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return errors.New("no matching signature")
}

func (h *WebhookHandler) record(event webhookEvent) {
	if h.bus == nil {
		return
	}
	h.bus.Publish(analytics.EventCustom, map[string]any{
		"category":          "payment",
		"action":            "webhook_" + event.Type,
		"event_id":          event.ID,
		"payment_intent_id": event.Data.Object.ID,
		"status":            event.Data.Object.Status,
	})
}
