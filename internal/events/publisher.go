package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/giellalt/kbddocs/internal/config"
	"github.com/giellalt/kbddocs/internal/logfields"
)

// Publisher delivers events to a JetStream stream.
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewPublisher connects to NATS and ensures the configured stream exists.
func NewPublisher(cfg config.EventsConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("event publishing is disabled")
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("kbddocs"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        cfg.Stream,
		Description: "Keyboard documentation generation events",
		Subjects:    []string{cfg.Subject + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ensure stream: %w", err)
	}

	slog.Info("Event publisher initialized",
		logfields.URL(cfg.URL),
		slog.String("stream", cfg.Stream),
		slog.String("subject", cfg.Subject))

	return &Publisher{conn: conn, js: js, subject: cfg.Subject}, nil
}

// PublishPageGenerated publishes a page generation event.
func (p *Publisher) PublishPageGenerated(ctx context.Context, event PageGeneratedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, p.subject+".page_generated", event)
}

// PublishLintCompleted publishes a lint completion event.
func (p *Publisher) PublishLintCompleted(ctx context.Context, event LintCompletedEvent) error {
	event.Timestamp = time.Now()
	return p.publish(ctx, p.subject+".lint_completed", event)
}

func (p *Publisher) publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("Published event", slog.String("subject", subject))
	return nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
