// Package stripe provides a client for the Stripe REST API.
//
// Only the surface the payment service needs is implemented: customers,
// payment intents, and card payment methods.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// DefaultBaseURL is the live Stripe API endpoint.
const DefaultBaseURL = "https://api.stripe.com"

// Client is a Stripe API client.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// Config represents Stripe client configuration.
type Config struct {
	SecretKey string
	BaseURL   string // Optional; DefaultBaseURL when empty
}

// Customer represents a Stripe customer.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// PaymentIntent represents a Stripe payment intent.
type PaymentIntent struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Customer     string `json:"customer"`
}

// PaymentMethod represents a Stripe payment method.
type PaymentMethod struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Card carries raw card details for payment method creation.
type Card struct {
	Number         string
	ExpMonth       int
	ExpYear        int
	CVC            string
	CardholderName string
}

// customerList represents the response from the customer list endpoint.
type customerList struct {
	Data []Customer `json:"data"`
}

// apiError represents a Stripe error envelope.
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// New creates a new Stripe client.
func New(cfg Config) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		secretKey:  cfg.SecretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// FindCustomerByEmail returns the first customer with the given email.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*Customer, bool, error) {
	if email == "" {
		return nil, false, errors.New("email is required")
	}

	params := url.Values{}
	params.Set("email", email)
	params.Set("limit", "1")

	var list customerList
	if err := c.do(ctx, "GET", "/v1/customers?"+params.Encode(), nil, &list); err != nil {
		return nil, false, err
	}
	if len(list.Data) == 0 {
		return nil, false, nil
	}
	return &list.Data[0], true, nil
}

// CreateCustomer creates a new customer.
func (c *Client) CreateCustomer(ctx context.Context, email, name string, metadata map[string]string) (*Customer, error) {
	if email == "" {
		return nil, errors.New("email is required")
	}

	params := url.Values{}
	params.Set("email", email)
	params.Set("name", name)
	for k, v := range metadata {
		params.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var customer Customer
	if err := c.do(ctx, "POST", "/v1/customers", params, &customer); err != nil {
		return nil, err
	}
	zlog.Debug().Msgf("stripe: created customer %s", customer.ID)
	return &customer, nil
}

// CreatePaymentIntent creates a payment intent with automatic payment
// methods enabled.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency, customerID string, metadata map[string]string) (*PaymentIntent, error) {
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	if currency == "" {
		currency = "usd"
	}

	params := url.Values{}
	params.Set("amount", fmt.Sprintf("%d", amount))
	params.Set("currency", currency)
	params.Set("automatic_payment_methods[enabled]", "true")
	if customerID != "" {
		params.Set("customer", customerID)
	}
	for k, v := range metadata {
		params.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var intent PaymentIntent
	if err := c.do(ctx, "POST", "/v1/payment_intents", params, &intent); err != nil {
		return nil, err
	}
	zlog.Debug().Msgf("stripe: created payment intent %s (amount=%d %s)", intent.ID, amount, currency)
	return &intent, nil
}

// CreatePaymentMethod creates a card payment method from raw card details.
func (c *Client) CreatePaymentMethod(ctx context.Context, card Card) (*PaymentMethod, error) {
	if card.Number == "" {
		return nil, errors.New("card number is required")
	}

	params := url.Values{}
	params.Set("type", "card")
	params.Set("card[number]", card.Number)
	params.Set("card[exp_month]", fmt.Sprintf("%d", card.ExpMonth))
	params.Set("card[exp_year]", fmt.Sprintf("%d", card.ExpYear))
	params.Set("card[cvc]", card.CVC)
	params.Set("billing_details[name]", card.CardholderName)

	var method PaymentMethod
	if err := c.do(ctx, "POST", "/v1/payment_methods", params, &method); err != nil {
		return nil, err
	}
	return &method, nil
}

// ConfirmPaymentIntent confirms a payment intent with the given payment method.
func (c *Client) ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethodID string) (*PaymentIntent, error) {
	if intentID == "" {
		return nil, errors.New("payment intent id is required")
	}

	params := url.Values{}
	params.Set("payment_method", paymentMethodID)

	var intent PaymentIntent
	if err := c.do(ctx, "POST", "/v1/payment_intents/"+intentID+"/confirm", params, &intent); err != nil {
		return nil, err
	}
	zlog.Debug().Msgf("stripe: confirmed payment intent %s (status=%s)", intent.ID, intent.Status)
	return &intent, nil
}

// do sends an authenticated form-encoded request and decodes the response
// into out. Stripe error envelopes become Go errors.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, out any) error {
	var body io.Reader
	if params != nil {
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if params != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return errors.Errorf("stripe API error (%s): %s", apiErr.Error.Type, apiErr.Error.Message)
		}
		return errors.Errorf("stripe API returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "failed to parse response")
	}
	return nil
}
