package vonageclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fivetwenty-io/vonage-client/internal/client"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/prometheus/client_golang/prometheus"
)

// Builder assembles a client step by step. Setters never fail; problems such
// as an unreadable key file are collected and reported by Build together
// with the config validation errors.
type Builder struct {
	config   vonage.Config
	problems []error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// ApplicationID sets the Vonage application id.
func (b *Builder) ApplicationID(id string) *Builder {
	b.config.ApplicationID = id

	return b
}

// PrivateKey sets the PEM encoded application private key.
func (b *Builder) PrivateKey(key vonage.PrivateKey) *Builder {
	b.config.PrivateKey = key

	return b
}

// PrivateKeyPEM sets the private key from a plain string.
func (b *Builder) PrivateKeyPEM(pem string) *Builder {
	return b.PrivateKey(vonage.NewSecret(pem))
}

// PrivateKeyFile reads the private key from path.
func (b *Builder) PrivateKeyFile(path string) *Builder {
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the caller on purpose
	if err != nil {
		b.problems = append(b.problems, fmt.Errorf("%w: %w", vonage.ErrPrivateKeyUnreadable, err))

		return b
	}

	return b.PrivateKey(vonage.NewSecret(string(data)))
}

// Region selects a regional API host.
func (b *Builder) Region(region vonage.Region) *Builder {
	b.config.Region = region

	return b
}

// RegionName selects a regional API host by name ("us", "eu" or "ap").
func (b *Builder) RegionName(name string) *Builder {
	region, err := vonage.ParseRegion(name)
	if err != nil {
		b.problems = append(b.problems, err)

		return b
	}

	return b.Region(region)
}

// BaseURL overrides the API base URL. It wins over Region.
func (b *Builder) BaseURL(baseURL string) *Builder {
	b.config.BaseURL = baseURL

	return b
}

// RefreshWindow enables automatic refresh, re-signing the token once it is
// within window (plus a 5s grace) of expiry.
func (b *Builder) RefreshWindow(window time.Duration) *Builder {
	b.config.RefreshWindow = vonage.RefreshAfter(window)

	return b
}

// TokenTTL sets the lifetime of application tokens.
func (b *Builder) TokenTTL(ttl time.Duration) *Builder {
	b.config.TokenTTL = ttl

	return b
}

// Logger sets the logger used by the token manager and the HTTP layer.
func (b *Builder) Logger(logger vonage.Logger) *Builder {
	b.config.Logger = logger

	return b
}

// Debug enables request and response logging.
func (b *Builder) Debug(debug bool) *Builder {
	b.config.Debug = debug

	return b
}

// UserAgent overrides the User-Agent header.
func (b *Builder) UserAgent(userAgent string) *Builder {
	b.config.UserAgent = userAgent

	return b
}

// HTTPClient sets the underlying HTTP client.
func (b *Builder) HTTPClient(httpClient *http.Client) *Builder {
	b.config.HTTPClient = httpClient

	return b
}

// Registerer registers request and refresh metrics.
func (b *Builder) Registerer(reg prometheus.Registerer) *Builder {
	b.config.Registerer = reg

	return b
}

// Clock overrides the wall clock.
func (b *Builder) Clock(clock vonage.Clock) *Builder {
	b.config.Clock = clock

	return b
}

// IDGenerator overrides the token id generator.
func (b *Builder) IDGenerator(ids vonage.IDGenerator) *Builder {
	b.config.IDGenerator = ids

	return b
}

// Config returns a copy of the accumulated configuration.
func (b *Builder) Config() vonage.Config {
	return b.config
}

// Validate reports every setter and config problem as one
// *vonage.ValidationError.
func (b *Builder) Validate() error {
	problems := append([]error(nil), b.problems...)

	err := b.config.Validate()
	if err != nil {
		var validationErr *vonage.ValidationError
		if errors.As(err, &validationErr) {
			problems = append(problems, validationErr.Problems...)
		} else {
			problems = append(problems, err)
		}
	}

	if len(problems) == 0 {
		return nil
	}

	return &vonage.ValidationError{Problems: problems}
}

// Build validates the configuration and creates the client.
func (b *Builder) Build(ctx context.Context) (vonage.Client, error) {
	err := b.Validate()
	if err != nil {
		return nil, err
	}

	config := b.config

	c, err := client.New(ctx, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}
