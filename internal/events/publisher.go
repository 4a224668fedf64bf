// Package events forwards decoded webhook payloads to a message bus.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "vonage.calls"

// Static errors for err113 compliance.
var (
	ErrNilEvent    = errors.New("event is nil")
	ErrEmptyPrefix = errors.New("subject prefix is empty")
)

// Publisher forwards webhook payloads.
type Publisher interface {
	PublishAnswer(ctx context.Context, payload *vonage.AnswerPayload) error
	PublishCallEvent(ctx context.Context, event *vonage.CallEvent) error
	Close() error
}

// Conn is the subset of *nats.Conn used by NATSPublisher.
type Conn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// Envelope is the message body published for every payload.
type Envelope struct {
	Kind       string          `json:"kind"`
	UUID       string          `json:"uuid"`
	ReceivedAt time.Time       `json:"received_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NATSPublisher publishes envelopes to "<prefix>.answer" and
// "<prefix>.event.<kind>".
type NATSPublisher struct {
	conn   Conn
	prefix string
	now    func() time.Time
	logger vonage.Logger
}

// Option configures a NATSPublisher.
type Option func(*NATSPublisher)

// WithLogger sets the logger.
func WithLogger(logger vonage.Logger) Option {
	return func(p *NATSPublisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock overrides the receive timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *NATSPublisher) {
		if now != nil {
			p.now = now
		}
	}
}

// NewNATSPublisher wraps an open connection.
func NewNATSPublisher(conn Conn, prefix string, opts ...Option) (*NATSPublisher, error) {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	p := &NATSPublisher{
		conn:   conn,
		prefix: prefix,
		now:    time.Now,
		logger: vonage.NopLogger{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Connect dials the NATS server at url and returns a publisher on prefix.
func Connect(url, prefix string, opts ...Option) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("vonage-webhooks"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	p, err := NewNATSPublisher(conn, prefix, opts...)
	if err != nil {
		conn.Close()

		return nil, err
	}

	return p, nil
}

// Subject returns the subject an event of kind is published on.
func (p *NATSPublisher) Subject(kind string) string {
	if kind == "answer" {
		return p.prefix + ".answer"
	}

	return p.prefix + ".event." + kind
}

// PublishAnswer publishes an answer webhook payload.
func (p *NATSPublisher) PublishAnswer(ctx context.Context, payload *vonage.AnswerPayload) error {
	if payload == nil {
		return ErrNilEvent
	}

	return p.publish(ctx, "answer", payload.UUID, payload)
}

// PublishCallEvent publishes an event webhook payload.
func (p *NATSPublisher) PublishCallEvent(ctx context.Context, event *vonage.CallEvent) error {
	if event == nil {
		return ErrNilEvent
	}

	return p.publish(ctx, string(event.Kind), event.UUID(), event)
}

func (p *NATSPublisher) publish(ctx context.Context, kind, uuid string, payload interface{}) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", kind, err)
	}

	data, err := json.Marshal(Envelope{
		Kind:       kind,
		UUID:       uuid,
		ReceivedAt: p.now().UTC(),
		Payload:    body,
	})
	if err != nil {
		return fmt.Errorf("encoding %s envelope: %w", kind, err)
	}

	subject := p.Subject(kind)

	err = p.conn.Publish(subject, data)
	if err != nil {
		p.logger.Error("Event publish failed", map[string]interface{}{
			"subject": subject,
			"error":   err,
		})

		return fmt.Errorf("publishing to %s: %w", subject, err)
	}

	p.logger.Debug("Event published", map[string]interface{}{
		"subject": subject,
		"uuid":    uuid,
	})

	return nil
}

// Close drains the connection, flushing pending messages.
func (p *NATSPublisher) Close() error {
	err := p.conn.Drain()
	if err != nil {
		return fmt.Errorf("draining NATS connection: %w", err)
	}

	return nil
}

// NopPublisher discards everything.
type NopPublisher struct{}

func (NopPublisher) PublishAnswer(context.Context, *vonage.AnswerPayload) error { return nil }
func (NopPublisher) PublishCallEvent(context.Context, *vonage.CallEvent) error  { return nil }
func (NopPublisher) Close() error                                               { return nil }
