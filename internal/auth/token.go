package auth

import (
	"sync"
	"time"

	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
)

// Token is a signed token and its expiry.
type Token struct {
	Value     vonage.Token
	ExpiresAt time.Time
}

// Valid reports whether the token is usable at now.
func (t *Token) Valid(now time.Time) bool {
	if t == nil || t.Value.IsZero() {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return now.Before(t.ExpiresAt)
}

// TokenStore holds the current token behind a read/write lock.
type TokenStore struct {
	mutex sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token or nil.
func (s *TokenStore) Get() *Token {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.token
}

// Set replaces the current token.
func (s *TokenStore) Set(token *Token) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = token
}

// Clear removes the current token.
func (s *TokenStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = nil
}
