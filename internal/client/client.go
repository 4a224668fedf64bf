package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/vonage-client/internal/auth"
	"github.com/fivetwenty-io/vonage-client/internal/http"
	"github.com/fivetwenty-io/vonage-client/internal/metrics"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenManagerConfigured = errors.New("no token manager configured")
	ErrNoGeneratorConfigured    = errors.New("no token generator configured")
)

// UserTokenGenerator signs Client SDK login tokens. *auth.Generator
// implements it.
type UserTokenGenerator interface {
	ApplicationID() string
	GenerateUserToken(subject string, ttl time.Duration, acl *vonage.ACL) (*auth.SignedToken, error)
}

// Client implements the vonage.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	generator    UserTokenGenerator
	logger       vonage.Logger

	// Resource clients
	voice vonage.VoiceClient
	users vonage.UsersClient
}

// New validates the config, signs the first application token and wires the
// request pipeline. Every config problem is reported in one
// *vonage.ValidationError; a key that cannot sign is a *vonage.SigningError.
func New(ctx context.Context, config *vonage.Config) (*Client, error) {
	if config == nil {
		return nil, vonage.ErrConfigRequired
	}

	err := config.Validate()
	if err != nil {
		return nil, err
	}

	err = ctx.Err()
	if err != nil {
		return nil, err
	}

	m, err := metrics.New(config.Registerer)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}

	generator, err := auth.NewGenerator(config.ApplicationID, config.PrivateKey, createGeneratorOptions(config)...)
	if err != nil {
		return nil, err
	}

	tokenManager, err := auth.NewRefreshingTokenManager(generator, config.RefreshWindow, createManagerOptions(config, m)...)
	if err != nil {
		return nil, err
	}

	return NewWithTokenManager(config, generator, tokenManager, m), nil
}

// NewWithTokenManager wires a client around an existing token manager. The
// config is not validated.
func NewWithTokenManager(config *vonage.Config, generator UserTokenGenerator, tokenManager auth.TokenManager, m *metrics.Metrics) *Client {
	httpClient := http.NewClient(config.ResolveBaseURL(), tokenManager, createHTTPClientOptions(config, m)...)

	logger := config.Logger
	if logger == nil {
		logger = vonage.NopLogger{}
	}

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		generator:    generator,
		logger:       logger,
	}

	client.initializeResourceClients()

	return client
}

func createGeneratorOptions(config *vonage.Config) []auth.GeneratorOption {
	return []auth.GeneratorOption{
		auth.WithClock(config.Clock),
		auth.WithIDGenerator(config.IDGenerator),
		auth.WithApplicationTTL(config.EffectiveTokenTTL()),
	}
}

func createManagerOptions(config *vonage.Config, m *metrics.Metrics) []auth.ManagerOption {
	return []auth.ManagerOption{
		auth.WithManagerClock(config.Clock),
		auth.WithManagerLogger(config.Logger),
		auth.WithManagerMetrics(m),
	}
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *vonage.Config, m *metrics.Metrics) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	if m != nil {
		httpOpts = append(httpOpts, http.WithMetrics(m))
	}

	return httpOpts
}

func (c *Client) initializeResourceClients() {
	c.voice = NewVoiceClient(c.httpClient)
	c.users = NewUsersClient(c.httpClient)
}

// ApplicationID implements vonage.Client.ApplicationID.
func (c *Client) ApplicationID() string {
	if c.generator == nil {
		return ""
	}

	return c.generator.ApplicationID()
}

// BaseURL implements vonage.Client.BaseURL.
func (c *Client) BaseURL() string {
	return c.httpClient.BaseURL()
}

// Send implements vonage.Client.Send.
func (c *Client) Send(ctx context.Context, method, path string, body interface{}) (*vonage.Response, error) {
	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: method,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	return &vonage.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Headers,
		Body:       resp.Body,
	}, nil
}

// RefreshToken implements vonage.Client.RefreshToken.
func (c *Client) RefreshToken(ctx context.Context) error {
	if c.tokenManager == nil {
		return ErrNoTokenManagerConfigured
	}

	return c.tokenManager.RefreshToken(ctx)
}

// GenerateUserToken implements vonage.Client.GenerateUserToken.
func (c *Client) GenerateUserToken(subject string, ttl time.Duration, acl *vonage.ACL) (vonage.Token, time.Time, error) {
	if c.generator == nil {
		return vonage.Token{}, time.Time{}, ErrNoGeneratorConfigured
	}

	signed, err := c.generator.GenerateUserToken(subject, ttl, acl)
	if err != nil {
		return vonage.Token{}, time.Time{}, err
	}

	c.logger.Debug("User token generated", map[string]interface{}{
		"sub":        subject,
		"expires_at": signed.ExpiresAt,
	})

	return signed.Token, signed.ExpiresAt, nil
}

// Voice implements vonage.Client.Voice.
func (c *Client) Voice() vonage.VoiceClient {
	return c.voice
}

// Users implements vonage.Client.Users.
func (c *Client) Users() vonage.UsersClient {
	return c.users
}
