package payment

import (
	"context"

	"connectrpc.com/connect"
)

// Client is a Connect client for the PaymentService.
type Client struct {
	createIntent *connect.Client[CreatePaymentIntentRequest, CreatePaymentIntentResponse]
	confirm      *connect.Client[ConfirmPaymentRequest, ConfirmPaymentResponse]
}

// NewClient creates a new payment Client against baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string) *Client {
	return &Client{
		createIntent: connect.NewClient[CreatePaymentIntentRequest, CreatePaymentIntentResponse](
			httpClient,
			baseURL+CreatePaymentIntentProcedure,
			connect.WithCodec(jsonCodec{}),
		),
		confirm: connect.NewClient[ConfirmPaymentRequest, ConfirmPaymentResponse](
			httpClient,
			baseURL+ConfirmPaymentProcedure,
			connect.WithCodec(jsonCodec{}),
		),
	}
}

// CreatePaymentIntent calls the CreatePaymentIntent procedure.
func (c *Client) CreatePaymentIntent(ctx context.Context, req *CreatePaymentIntentRequest) (*CreatePaymentIntentResponse, error) {
	resp, err := c.createIntent.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// ConfirmPayment calls the ConfirmPayment procedure.
func (c *Client) ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	resp, err := c.confirm.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
