package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/vonage-client/internal/events"
	"github.com/fivetwenty-io/vonage-client/internal/metrics"
	"github.com/fivetwenty-io/vonage-client/internal/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const (
	defaultListenAddr = ":8000"
	defaultGreeting   = "Hello from Vonage"
)

// serveOptions holds the flags of serve.
type serveOptions struct {
	listen      string
	publicURL   string
	greeting    string
	connectUser string
	natsURL     string
	natsSubject string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a webhook receiver",
		Long: `Run an HTTP server for the Voice API answer and event webhooks.

Routes:
  /voice/answer   answers calls with a greeting, optionally connecting a Client SDK user
  /voice/event    accepts call events and forwards them to NATS when configured
  /metrics        Prometheus metrics
  /healthz        health check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyServeConfig(cmd, opts)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", defaultListenAddr, "address to listen on")
	cmd.Flags().StringVar(&opts.publicURL, "public-url", "", "public base URL of this server, used for talk event callbacks")
	cmd.Flags().StringVar(&opts.greeting, "greeting", defaultGreeting, "text spoken when a call is answered")
	cmd.Flags().StringVar(&opts.connectUser, "connect-user", "", "Client SDK user to connect answered calls to")
	cmd.Flags().StringVar(&opts.natsURL, "nats-url", "", "NATS server to forward webhook payloads to")
	cmd.Flags().StringVar(&opts.natsSubject, "nats-subject", events.DefaultSubjectPrefix, "NATS subject prefix")

	return cmd
}

// applyServeConfig fills flags the user did not set from the config file
// and environment.
func applyServeConfig(cmd *cobra.Command, opts *serveOptions) {
	config := loadConfig()

	if !cmd.Flags().Changed("listen") && config.Listen != "" {
		opts.listen = config.Listen
	}

	if !cmd.Flags().Changed("nats-url") && config.NATSURL != "" {
		opts.natsURL = config.NATSURL
	}

	if !cmd.Flags().Changed("nats-subject") && config.NATSSubject != "" {
		opts.natsSubject = config.NATSSubject
	}
}

func runServe(ctx context.Context, opts *serveOptions) error {
	logger := newLogger()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	var publisher events.Publisher = events.NopPublisher{}

	if opts.natsURL != "" {
		natsPublisher, err := events.Connect(opts.natsURL, opts.natsSubject, events.WithLogger(logger))
		if err != nil {
			return err
		}

		publisher = natsPublisher
	}

	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Closing event publisher failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	eventURL := ""
	if opts.publicURL != "" {
		eventURL = strings.TrimSuffix(opts.publicURL, "/") + webhook.EventPath
	}

	handler := webhook.NewHandler(
		webhook.GreetingAnswer(opts.greeting, eventURL, opts.connectUser),
		webhook.WithMetrics(m),
		webhook.WithPublisher(publisher),
		webhook.WithLogger(logger),
	)

	return webhook.Serve(ctx, opts.listen, webhook.NewMux(handler, registry), logger)
}
