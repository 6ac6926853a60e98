package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{SecretKey: "sk_test_123", BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresSecretKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestClient_FindCustomerByEmail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/v1/customers", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "user@example.com", r.URL.Query().Get("email"))

		_, _ = w.Write([]byte(`{"data":[{"id":"cus_1","email":"user@example.com","name":"Music Lover"}]}`))
	})

	customer, found, err := c.FindCustomerByEmail(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "cus_1", customer.ID)
}

func TestClient_FindCustomerByEmail_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	_, found, err := c.FindCustomerByEmail(context.Background(), "missing@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_CreateCustomer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/customers", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "user@example.com", r.PostForm.Get("email"))
		assert.Equal(t, "monthly", r.PostForm.Get("metadata[planId]"))

		_, _ = w.Write([]byte(`{"id":"cus_new","email":"user@example.com","name":"Music Lover"}`))
	})

	customer, err := c.CreateCustomer(context.Background(), "user@example.com", "Music Lover",
		map[string]string{"planId": "monthly"})
	require.NoError(t, err)
	assert.Equal(t, "cus_new", customer.ID)
}

func TestClient_CreatePaymentIntent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "999", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "cus_1", r.PostForm.Get("customer"))
		assert.Equal(t, "true", r.PostForm.Get("automatic_payment_methods[enabled]"))

		_, _ = w.Write([]byte(`{"id":"pi_1","status":"requires_payment_method","client_secret":"pi_1_secret","amount":999,"currency":"usd","customer":"cus_1"}`))
	})

	intent, err := c.CreatePaymentIntent(context.Background(), 999, "usd", "cus_1", nil)
	require.NoError(t, err)
	assert.Equal(t, "pi_1", intent.ID)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
}

func TestClient_CreatePaymentIntent_InvalidAmount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.CreatePaymentIntent(context.Background(), 0, "usd", "", nil)
	assert.Error(t, err)
}

func TestClient_ConfirmPaymentIntent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payment_intents/pi_1/confirm", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "pm_1", r.PostForm.Get("payment_method"))

		_, _ = w.Write([]byte(`{"id":"pi_1","status":"succeeded"}`))
	})

	intent, err := c.ConfirmPaymentIntent(context.Background(), "pi_1", "pm_1")
	require.NoError(t, err)
	assert.Equal(t, "succeeded", intent.Status)
}

func TestClient_APIErrorDecoded(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	})

	_, err := c.CreatePaymentMethod(context.Background(), Card{
		Number: "4000000000000002", ExpMonth: 12, ExpYear: 2030, CVC: "123", CardholderName: "Music Lover",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Your card was declined.")
}
