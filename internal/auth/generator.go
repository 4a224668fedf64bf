package auth

import (
	"crypto/rsa"
	"fmt"
	"strings"
	"time"

	"github.com/fivetwenty-io/vonage-client/internal/constants"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/golang-jwt/jwt/v5"
)

// SignedToken is the result of a Generate call.
type SignedToken struct {
	Token     vonage.Token
	ExpiresAt time.Time
	Claims    Claims
}

// Generator signs RS256 tokens for one application. It is immutable and safe
// for concurrent use.
type Generator struct {
	applicationID string
	key           *rsa.PrivateKey
	ttl           time.Duration
	clock         vonage.Clock
	ids           vonage.IDGenerator
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock overrides the wall clock.
func WithClock(clock vonage.Clock) GeneratorOption {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// WithIDGenerator overrides the jti generator.
func WithIDGenerator(ids vonage.IDGenerator) GeneratorOption {
	return func(g *Generator) {
		if ids != nil {
			g.ids = ids
		}
	}
}

// WithApplicationTTL sets the lifetime of application tokens.
func WithApplicationTTL(ttl time.Duration) GeneratorOption {
	return func(g *Generator) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// NewGenerator parses the private key and returns a Generator. Key problems
// are reported here, as a *vonage.SigningError wrapping vonage.ErrInvalidKey.
func NewGenerator(applicationID string, privateKey vonage.PrivateKey, opts ...GeneratorOption) (*Generator, error) {
	if strings.TrimSpace(applicationID) == "" {
		return nil, vonage.ErrApplicationIDRequired
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKey.Reveal()))
	if err != nil {
		return nil, &vonage.SigningError{Err: fmt.Errorf("%w: %w", vonage.ErrInvalidKey, err)}
	}

	g := &Generator{
		applicationID: applicationID,
		key:           key,
		ttl:           constants.ApplicationTokenTTL,
		clock:         SystemClock{},
		ids:           UUIDGenerator{},
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// ApplicationID returns the application the generator signs for.
func (g *Generator) ApplicationID() string {
	return g.applicationID
}

// Generate signs a fresh claim set. iat and nbf are the current time, exp is
// iat + TTL and jti is newly generated on every call.
func (g *Generator) Generate(opts TokenOptions) (*SignedToken, error) {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = g.ttl
		if opts.Subject != "" {
			ttl = constants.UserTokenTTL
		}
	}

	claims := newClaims(g.applicationID, g.clock.Now(), ttl, g.ids.NewID(), opts)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(g.key)
	if err != nil {
		return nil, &vonage.SigningError{Err: err}
	}

	return &SignedToken{
		Token:     vonage.NewSecret(signed),
		ExpiresAt: claims.Expiry(),
		Claims:    claims,
	}, nil
}

// GenerateApplicationToken signs a token for the application itself.
func (g *Generator) GenerateApplicationToken() (*SignedToken, error) {
	return g.Generate(TokenOptions{})
}

// GenerateUserToken signs a subject-scoped token for a Client SDK user. A zero
// ttl selects the five minute default.
func (g *Generator) GenerateUserToken(subject string, ttl time.Duration, acl *vonage.ACL) (*SignedToken, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, vonage.ErrSubjectRequired
	}

	if ttl <= 0 {
		ttl = constants.UserTokenTTL
	}

	return g.Generate(TokenOptions{Subject: subject, TTL: ttl, ACL: acl})
}
