// Package main provides the payment daemon entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"beatdeck/internal/api/payment"
	"beatdeck/internal/app/analytics"
	"beatdeck/internal/infra/config"
	"beatdeck/internal/infra/logger"
	"beatdeck/internal/infra/stripe"
)

var (
	app        = kingpin.New("beatdeck-paymentd", "beatdeck payment daemon")
	configPath = app.Flag("config", "Path to config file").Default("config/beatdeck.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	stripeClient, err := stripe.New(stripe.Config{
		SecretKey: cfg.Stripe.SecretKey,
		BaseURL:   cfg.Stripe.APIBaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create stripe client: %w", err)
	}

	bus := analytics.NewBus()
	defer bus.Close()
	bus.Subscribe(analytics.NewLogSink())

	mux := http.NewServeMux()
	payment.NewService(stripeClient, cfg, bus).Register(mux)
	if cfg.Stripe.WebhookSecret != "" {
		mux.Handle(payment.WebhookPath, payment.NewWebhookHandler(cfg.Stripe.WebhookSecret, bus))
	} else {
		zlog.Warn().Msg("Webhook secret not configured, webhook endpoint disabled")
	}

	serverAddr := cfg.Server.Addr
	// h2c keeps HTTP/2 available without TLS for local clients
	server := &http.Server{
		Addr:    serverAddr,
		Handler: h2c.NewHandler(mux, &http2.Server{}),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}
