package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beatdeck/internal/infra/config"
	"beatdeck/internal/infra/stripe"
)

// fakeStripe is a minimal in-process stand-in for the processor API.
type fakeStripe struct {
	customers map[string]string // email -> customer id
	confirmed map[string]bool   // intent id -> confirmed
}

func newFakeStripe() *fakeStripe {
	return &fakeStripe{
		customers: make(map[string]string),
		confirmed: make(map[string]bool),
	}
}

func (f *fakeStripe) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/customers", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		data := []map[string]string{}
		if id, ok := f.customers[email]; ok {
			data = append(data, map[string]string{"id": id, "email": email})
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	})
	mux.HandleFunc("POST /v1/customers", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		email := r.PostForm.Get("email")
		id := "cus_test_1"
		f.customers[email] = id
		json.NewEncoder(w).Encode(map[string]string{"id": id, "email": email})
	})
	mux.HandleFunc("POST /v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		amount, _ := strconv.ParseInt(r.PostForm.Get("amount"), 10, 64)
		json.NewEncoder(w).Encode(map[string]any{
			"id":            "pi_test_1",
			"status":        "requires_payment_method",
			"client_secret": "pi_test_1_secret",
			"amount":        amount,
			"currency":      r.PostForm.Get("currency"),
			"customer":      r.PostForm.Get("customer"),
		})
	})
	mux.HandleFunc("POST /v1/payment_methods", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostForm.Get("card[number]") == "4000000000000002" {
			w.WriteHeader(http.StatusPaymentRequired)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"type": "card_error", "code": "card_declined", "message": "Your card was declined."},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "pm_test_1", "type": "card"})
	})
	mux.HandleFunc("POST /v1/payment_intents/{id}/confirm", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		f.confirmed[id] = true
		json.NewEncoder(w).Encode(map[string]any{"id": id, "status": "succeeded"})
	})
	return mux
}

func testConfig() *config.Config {
	return &config.Config{
		Stripe: config.StripeConfig{
			PublishableKey: "pk_test_123",
			SecretKey:      "sk_test_123",
			Plans: map[string]config.PlanConfig{
				"premium_monthly": {
					DisplayName: "Premium Monthly",
					Settings:    map[string]any{"amount": 999, "currency": "usd", "interval": "month"},
				},
			},
		},
	}
}

// newTestClient wires a fake processor, the service, and a Connect client
// talking over a real HTTP round trip.
func newTestClient(t *testing.T) (*Client, *fakeStripe) {
	t.Helper()

	fake := newFakeStripe()
	backend := httptest.NewServer(fake.handler())
	t.Cleanup(backend.Close)

	sc, err := stripe.New(stripe.Config{SecretKey: "sk_test_123", BaseURL: backend.URL})
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewService(sc, testConfig(), nil).Register(mux)
	front := httptest.NewServer(mux)
	t.Cleanup(front.Close)

	return NewClient(front.Client(), front.URL), fake
}

func TestService_CreatePaymentIntent(t *testing.T) {
	client, fake := newTestClient(t)

	resp, err := client.CreatePaymentIntent(context.Background(), &CreatePaymentIntentRequest{
		PlanID: "premium_monthly",
		Email:  "demo@beatdeck.app",
		Name:   "Music Lover",
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_test_1", resp.PaymentIntentID)
	assert.Equal(t, "pi_test_1_secret", resp.ClientSecret)
	assert.Equal(t, "cus_test_1", resp.CustomerID)
	assert.Equal(t, int64(999), resp.Amount)
	assert.Equal(t, "usd", resp.Currency)
	assert.Equal(t, "pk_test_123", resp.PublishableKey)
	assert.Equal(t, "cus_test_1", fake.customers["demo@beatdeck.app"])
}

func TestService_CreatePaymentIntentReusesCustomer(t *testing.T) {
	client, fake := newTestClient(t)
	fake.customers["demo@beatdeck.app"] = "cus_existing"

	resp, err := client.CreatePaymentIntent(context.Background(), &CreatePaymentIntentRequest{
		PlanID: "premium_monthly",
		Email:  "demo@beatdeck.app",
	})
	require.NoError(t, err)
	assert.Equal(t, "cus_existing", resp.CustomerID)
}

func TestService_CreatePaymentIntentValidation(t *testing.T) {
	client, _ := newTestClient(t)

	tests := []struct {
		name string
		req  CreatePaymentIntentRequest
	}{
		{name: "unknown plan", req: CreatePaymentIntentRequest{PlanID: "free_forever", Email: "a@b.c"}},
		{name: "missing email", req: CreatePaymentIntentRequest{PlanID: "premium_monthly"}},
		{name: "amount mismatch", req: CreatePaymentIntentRequest{PlanID: "premium_monthly", Amount: 100, Email: "a@b.c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreatePaymentIntent(context.Background(), &tt.req)
			require.Error(t, err)
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		})
	}
}

func TestService_ConfirmPayment(t *testing.T) {
	client, fake := newTestClient(t)

	resp, err := client.ConfirmPayment(context.Background(), &ConfirmPaymentRequest{
		PaymentIntentID: "pi_test_1",
		Card: CardDetails{
			Number:         "4242424242424242",
			ExpMonth:       12,
			ExpYear:        2030,
			CVC:            "123",
			CardholderName: "Music Lover",
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.Succeeded)
	assert.Equal(t, "succeeded", resp.Status)
	assert.True(t, fake.confirmed["pi_test_1"])
}

func TestService_ConfirmPaymentDeclined(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.ConfirmPayment(context.Background(), &ConfirmPaymentRequest{
		PaymentIntentID: "pi_test_1",
		Card:            CardDetails{Number: "4000000000000002", ExpMonth: 12, ExpYear: 2030, CVC: "123"},
	})
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	assert.Contains(t, err.Error(), "declined")
}

func TestService_ConfirmPaymentMissingIntent(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.ConfirmPayment(context.Background(), &ConfirmPaymentRequest{})
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}
