// Package main provides the payment CLI entry point for testing.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"beatdeck/internal/api/payment"
)

var (
	app    = kingpin.New("beatdeck-paycli", "beatdeck payment client for testing")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").String()

	// create-intent command
	createCmd    = app.Command("create-intent", "Create a payment intent for a plan")
	createPlan   = createCmd.Arg("plan", "Plan ID").Required().String()
	createMail   = createCmd.Arg("email", "Customer email").Required().String()
	createName   = createCmd.Flag("name", "Customer name").String()
	createAmount = createCmd.Flag("amount", "Expected amount in minor units (verified against the plan)").Int64()

	// confirm command
	confirmCmd    = app.Command("confirm", "Confirm a payment intent with a test card")
	confirmIntent = confirmCmd.Arg("intent-id", "Payment intent ID").Required().String()
	confirmNumber = confirmCmd.Flag("card", "Card number").Default("4242424242424242").String()
	confirmMonth  = confirmCmd.Flag("exp-month", "Expiry month").Default("12").Int()
	confirmYear   = confirmCmd.Flag("exp-year", "Expiry year").Default("2030").Int()
	confirmCVC    = confirmCmd.Flag("cvc", "Card CVC").Default("123").String()
	confirmHolder = confirmCmd.Flag("holder", "Cardholder name").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := payment.NewClient(http.DefaultClient, *server)
	ctx := context.Background()

	switch command {
	case createCmd.FullCommand():
		createIntent(ctx, client)
	case confirmCmd.FullCommand():
		confirm(ctx, client)
	}
}

func createIntent(ctx context.Context, client *payment.Client) {
	resp, err := client.CreatePaymentIntent(ctx, &payment.CreatePaymentIntentRequest{
		PlanID: *createPlan,
		Amount: *createAmount,
		Email:  *createMail,
		Name:   *createName,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Payment intent created\n")
	fmt.Printf("  ID:            %s\n", resp.PaymentIntentID)
	fmt.Printf("  Client secret: %s\n", resp.ClientSecret)
	fmt.Printf("  Customer:      %s\n", resp.CustomerID)
	fmt.Printf("  Amount:        %d %s\n", resp.Amount, resp.Currency)
}

func confirm(ctx context.Context, client *payment.Client) {
	resp, err := client.ConfirmPayment(ctx, &payment.ConfirmPaymentRequest{
		PaymentIntentID: *confirmIntent,
		Card: payment.CardDetails{
			Number:         *confirmNumber,
			ExpMonth:       *confirmMonth,
			ExpYear:        *confirmYear,
			CVC:            *confirmCVC,
			CardholderName: *confirmHolder,
		},
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if resp.Succeeded {
		fmt.Printf("Payment succeeded (status: %s)\n", resp.Status)
	} else {
		fmt.Printf("Payment not complete (status: %s)\n", resp.Status)
	}
}
