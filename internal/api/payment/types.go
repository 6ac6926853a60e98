package payment

// CreatePaymentIntentRequest asks for a payment intent covering one
// billing period of the given plan. Amount and Currency are optional;
// when set they must match the plan's configured price.
type CreatePaymentIntentRequest struct {
	PlanID   string `json:"planId"`
	Amount   int64  `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// CreatePaymentIntentResponse carries the client-side confirmation handle.
type CreatePaymentIntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	CustomerID      string `json:"customerId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	PublishableKey  string `json:"publishableKey"`
}

// CardDetails carries raw card input for server-side confirmation.
type CardDetails struct {
	Number         string `json:"number"`
	ExpMonth       int    `json:"expMonth"`
	ExpYear        int    `json:"expYear"`
	CVC            string `json:"cvc"`
	CardholderName string `json:"cardholderName"`
}

// ConfirmPaymentRequest confirms a previously created payment intent.
type ConfirmPaymentRequest struct {
	PaymentIntentID string      `json:"paymentIntentId"`
	Card            CardDetails `json:"card"`
}

// ConfirmPaymentResponse reports the processor's final intent status.
type ConfirmPaymentResponse struct {
	Status    string `json:"status"`
	Succeeded bool   `json:"succeeded"`
}
