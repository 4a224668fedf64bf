package vonage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/fivetwenty-io/vonage-client/internal/constants"
)

// secretDebug controls whether secrets render their real value.
var secretDebug atomic.Bool

func init() {
	v := os.Getenv(constants.EnvDebugSecrets)
	secretDebug.Store(v == "true" || v == "1")
}

// SetSecretDebug switches plaintext rendering of secrets on or off and returns
// the previous setting so callers can restore it.
func SetSecretDebug(enabled bool) bool {
	return secretDebug.Swap(enabled)
}

// SecretDebugEnabled reports whether secrets currently render their real value.
func SecretDebugEnabled() bool {
	return secretDebug.Load()
}

// Secret holds sensitive material such as a private key or a signed token.
//
// Every textual rendering (fmt verbs, String, GoString, JSON) prints a
// redaction marker unless debug rendering is enabled through the
// VONAGE_DEBUG_SECRETS environment variable or SetSecretDebug. The wrapped
// value is only reachable through Reveal.
type Secret[T comparable] struct {
	value T
}

// PrivateKey is a PEM encoded RSA private key.
type PrivateKey = Secret[string]

// Token is a signed JWT.
type Token = Secret[string]

// NewSecret wraps value.
func NewSecret[T comparable](value T) Secret[T] {
	return Secret[T]{value: value}
}

// Reveal returns the wrapped value.
func (s Secret[T]) Reveal() T {
	return s.value
}

// IsZero reports whether the secret wraps the zero value of T.
func (s Secret[T]) IsZero() bool {
	var zero T

	return s.value == zero
}

// Equal compares two secrets structurally. It exists for test fixtures and
// must not be used as an authorization check.
func (s Secret[T]) Equal(other Secret[T]) bool {
	return s.value == other.value
}

// String implements fmt.Stringer.
func (s Secret[T]) String() string {
	if secretDebug.Load() {
		return fmt.Sprintf("Secret<%v>", s.value)
	}

	return constants.MaskedSecret
}

// GoString implements fmt.GoStringer.
func (s Secret[T]) GoString() string {
	return s.String()
}

// Format implements fmt.Formatter so that no verb can print the raw value.
func (s Secret[T]) Format(state fmt.State, _ rune) {
	_, _ = io.WriteString(state, s.String())
}

// MarshalJSON implements json.Marshaler.
func (s Secret[T]) MarshalJSON() ([]byte, error) {
	if secretDebug.Load() {
		return json.Marshal(s.value)
	}

	return json.Marshal(constants.MaskedSecret)
}
