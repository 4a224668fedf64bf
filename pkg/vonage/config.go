package vonage

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fivetwenty-io/vonage-client/internal/constants"
	"github.com/prometheus/client_golang/prometheus"
)

// Region selects the regional API host.
type Region string

// Supported regions.
const (
	RegionUS Region = "us"
	RegionEU Region = "eu"
	RegionAP Region = "ap"
)

// ParseRegion parses a case-insensitive region name. An empty string yields
// the default region.
func ParseRegion(name string) (Region, error) {
	switch Region(strings.ToLower(strings.TrimSpace(name))) {
	case "", RegionUS:
		return RegionUS, nil
	case RegionEU:
		return RegionEU, nil
	case RegionAP:
		return RegionAP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, name)
	}
}

// BaseURL returns the fixed API host for the region.
func (r Region) BaseURL() string {
	switch r {
	case RegionEU:
		return constants.BaseURLEU
	case RegionAP:
		return constants.BaseURLAP
	default:
		return constants.BaseURLUS
	}
}

// Clock supplies the current time to token generation and refresh decisions.
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies unique token identifiers (the jti claim).
type IDGenerator interface {
	NewID() string
}

// Config represents client configuration for building a Client with vonageclient.New.
//
// # Base URL selection
//
// BaseURL, when set, always wins. Otherwise Region selects one of the fixed
// regional hosts, and the US host is used when neither is given. The result
// is resolved once when the client is built.
//
// # Token refresh
//
// The client signs an application token (TokenTTL, one hour by default) when
// it is built. When RefreshWindow is set, the token is regenerated before a
// request once now + 5s reaches expiry - RefreshWindow. When RefreshWindow is
// nil the token is never refreshed automatically; requests keep using it until
// the API rejects it.
type Config struct {
	// ApplicationID: the Vonage application the tokens are issued for.
	ApplicationID string
	// PrivateKey: PEM encoded RSA private key of the application.
	PrivateKey PrivateKey

	// Region: regional API host selector. Ignored when BaseURL is set.
	Region Region
	// BaseURL: explicit API base URL, useful for testing or private endpoints.
	BaseURL string

	// TokenTTL: lifetime of application tokens. Zero means one hour.
	TokenTTL time.Duration
	// RefreshWindow: lead time before expiry at which the token is
	// regenerated. Nil disables automatic refresh.
	RefreshWindow *time.Duration

	// Debug: enables verbose HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer and token manager.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
	// HTTPClient: optional underlying HTTP client. Its default transport
	// settings (timeouts, TLS) apply unchanged.
	HTTPClient *http.Client
	// Registerer: when set, request and token refresh metrics are registered with it.
	Registerer prometheus.Registerer

	// Clock and IDGenerator override the wall clock and the jti generator.
	Clock       Clock
	IDGenerator IDGenerator
}

// RefreshAfter returns a refresh window pointer for Config.RefreshWindow.
func RefreshAfter(window time.Duration) *time.Duration {
	return &window
}

// ResolveBaseURL applies the base URL precedence rules.
func (c *Config) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}

	return c.Region.BaseURL()
}

// EffectiveTokenTTL returns TokenTTL or the default application token lifetime.
func (c *Config) EffectiveTokenTTL() time.Duration {
	if c.TokenTTL == 0 {
		return constants.ApplicationTokenTTL
	}

	return c.TokenTTL
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems validationErrors

	if strings.TrimSpace(c.ApplicationID) == "" {
		problems.add(ErrApplicationIDRequired)
	}

	if strings.TrimSpace(c.PrivateKey.Reveal()) == "" {
		problems.add(ErrPrivateKeyRequired)
	}

	if c.Region != "" {
		if _, err := ParseRegion(string(c.Region)); err != nil {
			problems.add(err)
		}
	}

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			problems.add(fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL))
		}
	}

	ttl := c.EffectiveTokenTTL()
	if ttl <= 0 {
		problems.add(ErrInvalidTokenTTL)
	}

	if c.RefreshWindow != nil && (*c.RefreshWindow < 0 || *c.RefreshWindow >= ttl) {
		problems.add(fmt.Errorf("%w: window %s, lifetime %s", ErrInvalidRefreshWindow, *c.RefreshWindow, ttl))
	}

	return problems.err()
}
