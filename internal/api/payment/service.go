// Package payment provides the Connect RPC surface for subscription
// checkout: payment intent creation, server-side confirmation, and the
// processor webhook receiver.
package payment

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"beatdeck/internal/app/analytics"
	"beatdeck/internal/infra/config"
	"beatdeck/internal/infra/stripe"
)

// RPC procedure paths.
const (
	CreatePaymentIntentProcedure = "/payment.v1.PaymentService/CreatePaymentIntent"
	ConfirmPaymentProcedure      = "/payment.v1.PaymentService/ConfirmPayment"
)

// planSettings is the processor-specific part of a plan's configuration.
type planSettings struct {
	Amount   int64  `mapstructure:"amount"`
	Currency string `mapstructure:"currency"`
	Interval string `mapstructure:"interval"`
}

// Service implements the PaymentService RPC.
type Service struct {
	stripe *stripe.Client
	config *config.Config
	bus    *analytics.Bus
}

// NewService creates a new payment Service. bus may be nil.
func NewService(client *stripe.Client, cfg *config.Config, bus *analytics.Bus) *Service {
	return &Service{
		stripe: client,
		config: cfg,
		bus:    bus,
	}
}

// Register mounts both procedures on the mux.
func (s *Service) Register(mux *http.ServeMux) {
	mux.Handle(CreatePaymentIntentProcedure, connect.NewUnaryHandler(
		CreatePaymentIntentProcedure,
		s.CreatePaymentIntent,
		connect.WithCodec(jsonCodec{}),
	))
	mux.Handle(ConfirmPaymentProcedure, connect.NewUnaryHandler(
		ConfirmPaymentProcedure,
		s.ConfirmPayment,
		connect.WithCodec(jsonCodec{}),
	))
}

// CreatePaymentIntent resolves the plan's price, finds or creates the
// customer by email, and opens a payment intent against it.
func (s *Service) CreatePaymentIntent(
	ctx context.Context,
	req *connect.Request[CreatePaymentIntentRequest],
) (*connect.Response[CreatePaymentIntentResponse], error) {
	plan, ok := s.config.Stripe.Plans[req.Msg.PlanID]
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			errors.Newf("unknown plan %q", req.Msg.PlanID))
	}
	if req.Msg.Email == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			errors.New("email is required"))
	}

	var settings planSettings
	if err := mapstructure.Decode(plan.Settings, &settings); err != nil {
		return nil, connect.NewError(connect.CodeInternal,
			errors.Wrapf(err, "invalid settings for plan %q", req.Msg.PlanID))
	}
	if settings.Amount <= 0 {
		return nil, connect.NewError(connect.CodeInternal,
			errors.Newf("plan %q has no amount configured", req.Msg.PlanID))
	}
	// The configured price is authoritative; a client-sent amount may
	// only confirm it.
	if req.Msg.Amount != 0 && req.Msg.Amount != settings.Amount {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			errors.Newf("amount %d does not match plan %q", req.Msg.Amount, req.Msg.PlanID))
	}
	currency := settings.Currency
	if req.Msg.Currency != "" {
		currency = req.Msg.Currency
	}

	customer, found, err := s.stripe.FindCustomerByEmail(ctx, req.Msg.Email)
	if err != nil {
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	if !found {
		customer, err = s.stripe.CreateCustomer(ctx, req.Msg.Email, req.Msg.Name, map[string]string{
			"plan": req.Msg.PlanID,
		})
		if err != nil {
			return nil, connect.NewError(connect.CodeUnavailable, err)
		}
	}

	intent, err := s.stripe.CreatePaymentIntent(ctx, settings.Amount, currency, customer.ID, map[string]string{
		"plan": req.Msg.PlanID,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	s.publish("payment_intent_created", map[string]any{
		"plan":     req.Msg.PlanID,
		"amount":   intent.Amount,
		"currency": intent.Currency,
	})
	zlog.Info().Msgf("payment: created intent %s for plan %s", intent.ID, req.Msg.PlanID)

	return connect.NewResponse(&CreatePaymentIntentResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		CustomerID:      customer.ID,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
		PublishableKey:  s.config.Stripe.PublishableKey,
	}), nil
}

// ConfirmPayment turns the raw card into a payment method and confirms
// the intent with it.
func (s *Service) ConfirmPayment(
	ctx context.Context,
	req *connect.Request[ConfirmPaymentRequest],
) (*connect.Response[ConfirmPaymentResponse], error) {
	if req.Msg.PaymentIntentID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			errors.New("payment intent id is required"))
	}

	method, err := s.stripe.CreatePaymentMethod(ctx, stripe.Card{
		Number:         req.Msg.Card.Number,
		ExpMonth:       req.Msg.Card.ExpMonth,
		ExpYear:        req.Msg.Card.ExpYear,
		CVC:            req.Msg.Card.CVC,
		CardholderName: req.Msg.Card.CardholderName,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	intent, err := s.stripe.ConfirmPaymentIntent(ctx, req.Msg.PaymentIntentID, method.ID)
	if err != nil {
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}

	succeeded := intent.Status == "succeeded"
	s.publish("payment_confirmed", map[string]any{
		"payment_intent_id": intent.ID,
		"status":            intent.Status,
		"succeeded":         succeeded,
	})
	zlog.Info().Msgf("payment: confirmed intent %s (status=%s)", intent.ID, intent.Status)

	return connect.NewResponse(&ConfirmPaymentResponse{
		Status:    intent.Status,
		Succeeded: succeeded,
	}), nil
}

func (s *Service) publish(action string, fields map[string]any) {
	if s.bus == nil {
		return
	}
	fields["category"] = "payment"
	fields["action"] = action
	s.bus.Publish(analytics.EventCustom, fields)
}
