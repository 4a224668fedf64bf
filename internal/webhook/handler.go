// Package webhook serves the Voice API answer and event webhooks.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/vonage-client/internal/events"
	"github.com/fivetwenty-io/vonage-client/internal/metrics"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
)

// Routes served by Handler.
const (
	AnswerPath = "/voice/answer"
	EventPath  = "/voice/event"
)

const (
	maxPayloadBytes = 1 << 20
	kindAnswer      = "answer"
	kindUnknown     = "unknown"
)

// AnswerFunc returns the call flow for an answered call.
type AnswerFunc func(ctx context.Context, payload *vonage.AnswerPayload) (*vonage.NCCO, error)

// Handler decodes webhook payloads, answers calls and forwards events.
type Handler struct {
	answer    AnswerFunc
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    vonage.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithPublisher forwards every decoded payload to publisher.
func WithPublisher(publisher events.Publisher) Option {
	return func(h *Handler) {
		if publisher != nil {
			h.publisher = publisher
		}
	}
}

// WithMetrics counts received payloads.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger vonage.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a handler that answers calls with answer.
func NewHandler(answer AnswerFunc, opts ...Option) *Handler {
	h := &Handler{
		answer:    answer,
		publisher: events.NopPublisher{},
		logger:    vonage.NopLogger{},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Register adds the webhook routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(AnswerPath, h.ServeAnswer)
	mux.HandleFunc(EventPath, h.ServeEvent)
}

// ServeAnswer handles the answer webhook and replies with an NCCO.
func (h *Handler) ServeAnswer(w http.ResponseWriter, r *http.Request) {
	data, err := readPayload(r)
	if err != nil {
		h.reject(w, kindAnswer, err)

		return
	}

	payload, err := vonage.ParseAnswerPayload(data)
	if err != nil {
		h.reject(w, kindAnswer, err)

		return
	}

	h.metrics.ObserveWebhook(kindAnswer, nil)
	h.logger.Info("Answer webhook received", map[string]interface{}{
		"kind": payload.Kind,
		"uuid": payload.UUID,
		"to":   payload.To,
	})

	h.forward(kindAnswer, h.publisher.PublishAnswer(r.Context(), payload))

	ncco, err := h.answer(r.Context(), payload)
	if err != nil {
		h.logger.Error("Answer handler failed", map[string]interface{}{
			"uuid":  payload.UUID,
			"error": err,
		})
		writeJSON(w, http.StatusInternalServerError, errorBody(err))

		return
	}

	writeJSON(w, http.StatusOK, ncco)
}

// ServeEvent handles the event webhook.
func (h *Handler) ServeEvent(w http.ResponseWriter, r *http.Request) {
	data, err := readPayload(r)
	if err != nil {
		h.reject(w, kindUnknown, err)

		return
	}

	event, err := vonage.ParseCallEvent(data)
	if err != nil {
		h.reject(w, kindUnknown, err)

		return
	}

	kind := string(event.Kind)

	h.metrics.ObserveWebhook(kind, nil)
	h.logger.Info("Call event received", map[string]interface{}{
		"kind": kind,
		"uuid": event.UUID(),
	})

	h.forward(kind, h.publisher.PublishCallEvent(r.Context(), event))

	w.WriteHeader(http.StatusNoContent)
}

// forward logs a failed publish. The webhook itself still succeeds.
func (h *Handler) forward(kind string, err error) {
	if err == nil {
		return
	}

	h.logger.Warn("Forwarding webhook failed", map[string]interface{}{
		"kind":  kind,
		"error": err.Error(),
	})
}

func (h *Handler) reject(w http.ResponseWriter, kind string, err error) {
	h.metrics.ObserveWebhook(kind, err)
	h.logger.Warn("Rejected webhook payload", map[string]interface{}{
		"kind":  kind,
		"error": err.Error(),
	})

	status := http.StatusBadRequest
	if errors.Is(err, ErrMethodNotAllowed) {
		status = http.StatusMethodNotAllowed
	}

	writeJSON(w, status, errorBody(err))
}

// readPayload returns the JSON body of a POST, or the query parameters of a
// GET as a JSON object of strings.
func readPayload(r *http.Request) ([]byte, error) {
	switch r.Method {
	case http.MethodGet:
		return queryToJSON(r.URL.Query())
	case http.MethodPost:
		data, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
		if err != nil {
			return nil, fmt.Errorf("reading payload: %w", err)
		}

		return data, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrMethodNotAllowed, r.Method)
	}
}

func queryToJSON(query url.Values) ([]byte, error) {
	fields := make(map[string]string, len(query))
	for key := range query {
		fields[key] = query.Get(key)
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding query payload: %w", err)
	}

	return data, nil
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// GreetingAnswer answers every call by speaking greeting and then, when
// connectUser is set, connecting the call to that Client SDK user. Talk
// events are sent to eventURL when it is set.
func GreetingAnswer(greeting, eventURL, connectUser string) AnswerFunc {
	return func(_ context.Context, _ *vonage.AnswerPayload) (*vonage.NCCO, error) {
		ncco := vonage.NewNCCO().Talk(greeting, func(t *vonage.Talk) {
			t.BargeIn = vonage.Ptr(true)

			if eventURL != "" {
				t.EventURL = []string{eventURL}
				t.EventMethod = vonage.EventMethodPost
			}
		})

		if connectUser != "" {
			ncco.ConnectApp(connectUser)
		}

		return ncco, nil
	}
}
