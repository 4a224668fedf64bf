package auth

import (
	"fmt"
	"time"

	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload signed into every Vonage token.
//
// exp, iat and nbf are serialized as integer seconds; jti is unique per
// token; sub and acl are only present on user tokens.
type Claims struct {
	ApplicationID string      `json:"application_id"`
	ACL           *vonage.ACL `json:"acl,omitempty"`
	jwt.RegisteredClaims
}

// TokenOptions describes the token to generate. Times and the jti are
// stamped by the Generator.
type TokenOptions struct {
	// Subject: user the token is scoped to. Empty for application tokens.
	Subject string
	// TTL: token lifetime. Zero selects the default for the token kind.
	TTL time.Duration
	// ACL: optional access rules.
	ACL *vonage.ACL
}

// newClaims stamps a claim set at now.
func newClaims(applicationID string, now time.Time, ttl time.Duration, jti string, opts TokenOptions) Claims {
	issuedAt := time.Unix(now.Unix(), 0).UTC()

	return Claims{
		ApplicationID: applicationID,
		ACL:           opts.ACL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   opts.Subject,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ID:        jti,
		},
	}
}

// Expiry returns the exp claim as a time.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}

	return c.ExpiresAt.Time
}

// ParseUnverified decodes a token's claims without checking the signature.
// It is meant for inspection and diagnostics only.
func ParseUnverified(token string) (*Claims, error) {
	claims := &Claims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}

	return claims, nil
}
