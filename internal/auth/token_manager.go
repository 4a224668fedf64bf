package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/vonage-client/internal/constants"
	"github.com/fivetwenty-io/vonage-client/internal/metrics"
	"github.com/fivetwenty-io/vonage-client/pkg/vonage"
)

// Static errors for err113 compliance.
var (
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
)

// Signer issues application tokens. *Generator implements it.
type Signer interface {
	ApplicationID() string
	GenerateApplicationToken() (*SignedToken, error)
}

// TokenManager supplies the bearer token for each request.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) error
	SetToken(token string, expiresAt time.Time)
}

// State is the refresh state of a RefreshingTokenManager.
type State int

// Refresh states.
const (
	StateFresh State = iota
	StateNeedsRefresh
	StateRefreshing
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateNeedsRefresh:
		return "needs-refresh"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// RefreshingTokenManager owns the client's current token and regenerates it
// before expiry.
//
// A nil refresh window disables automatic refresh. Otherwise a refresh is due
// once now + 5s >= expiresAt - window. The check-and-swap runs under a
// mutex, so concurrent requests arriving during a refresh wait for it and
// reuse its result. A failed refresh leaves the old token in place and is
// attempted again by the next request.
type RefreshingTokenManager struct {
	generator     Signer
	refreshWindow *time.Duration
	clock         vonage.Clock
	logger        vonage.Logger
	metrics       *metrics.Metrics

	store      *TokenStore
	mutex      sync.Mutex
	refreshing atomic.Bool
}

// ManagerOption configures a RefreshingTokenManager.
type ManagerOption func(*RefreshingTokenManager)

// WithManagerClock overrides the clock used for refresh decisions.
func WithManagerClock(clock vonage.Clock) ManagerOption {
	return func(m *RefreshingTokenManager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithManagerLogger sets the logger.
func WithManagerLogger(logger vonage.Logger) ManagerOption {
	return func(m *RefreshingTokenManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerMetrics records refresh attempts.
func WithManagerMetrics(m *metrics.Metrics) ManagerOption {
	return func(manager *RefreshingTokenManager) {
		manager.metrics = m
	}
}

// NewRefreshingTokenManager signs the initial application token. Signing
// failures here are construction errors, not refresh errors.
func NewRefreshingTokenManager(generator Signer, refreshWindow *time.Duration, opts ...ManagerOption) (*RefreshingTokenManager, error) {
	m := &RefreshingTokenManager{
		generator: generator,
		clock:     SystemClock{},
		logger:    vonage.NopLogger{},
		store:     NewTokenStore(),
	}

	if refreshWindow != nil {
		window := *refreshWindow
		m.refreshWindow = &window
	}

	for _, opt := range opts {
		opt(m)
	}

	signed, err := generator.GenerateApplicationToken()
	if err != nil {
		return nil, err
	}

	m.store.Set(&Token{Value: signed.Token, ExpiresAt: signed.ExpiresAt})

	return m, nil
}

// NeedsRefresh reports whether a token expiring at expiresAt must be
// regenerated at now.
func NeedsRefresh(now, expiresAt time.Time, refreshWindow *time.Duration) bool {
	if refreshWindow == nil {
		return false
	}

	return !now.Add(constants.RefreshGrace).Before(expiresAt.Add(-*refreshWindow))
}

// State returns the current refresh state.
func (m *RefreshingTokenManager) State() State {
	if m.refreshing.Load() {
		return StateRefreshing
	}

	if NeedsRefresh(m.clock.Now(), m.ExpiresAt(), m.refreshWindow) {
		return StateNeedsRefresh
	}

	return StateFresh
}

// ExpiresAt returns the expiry of the current token.
func (m *RefreshingTokenManager) ExpiresAt() time.Time {
	token := m.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

// GetToken returns the current token, refreshing it first when due. A failed
// refresh returns a *vonage.TokenRefreshError and no token.
func (m *RefreshingTokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token != nil && !NeedsRefresh(m.clock.Now(), token.ExpiresAt, m.refreshWindow) {
		return token.Value.Reveal(), nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Another caller may have refreshed while we waited for the lock.
	token := m.store.Get()
	if token != nil && !NeedsRefresh(m.clock.Now(), token.ExpiresAt, m.refreshWindow) {
		return token.Value.Reveal(), nil
	}

	if err := ctx.Err(); err != nil {
		return "", &vonage.TokenRefreshError{Err: err}
	}

	if err := m.refreshLocked(); err != nil {
		return "", err
	}

	return m.store.Get().Value.Reveal(), nil
}

// RefreshToken regenerates the token regardless of the refresh window. It is
// the only way to renew a token when automatic refresh is disabled.
func (m *RefreshingTokenManager) RefreshToken(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &vonage.TokenRefreshError{Err: err}
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.refreshLocked()
}

// SetToken replaces the current token, e.g. with one signed elsewhere.
func (m *RefreshingTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.store.Set(&Token{Value: vonage.NewSecret(token), ExpiresAt: expiresAt})
}

func (m *RefreshingTokenManager) refreshLocked() error {
	m.refreshing.Store(true)
	defer m.refreshing.Store(false)

	previous := m.ExpiresAt()

	signed, err := m.generator.GenerateApplicationToken()
	m.metrics.ObserveRefresh(err)

	if err != nil {
		m.logger.Error("Token refresh failed", map[string]interface{}{
			"application_id": m.generator.ApplicationID(),
			"expires_at":     previous,
			"error":          err,
		})

		return &vonage.TokenRefreshError{Err: err}
	}

	m.store.Set(&Token{Value: signed.Token, ExpiresAt: signed.ExpiresAt})

	m.logger.Debug("Token refreshed", map[string]interface{}{
		"application_id":      m.generator.ApplicationID(),
		"previous_expires_at": previous,
		"expires_at":          signed.ExpiresAt,
	})

	return nil
}

// StaticTokenManager serves a fixed token, e.g. one issued out of band.
type StaticTokenManager struct {
	mutex sync.RWMutex
	token vonage.Token
}

// NewStaticTokenManager wraps token.
func NewStaticTokenManager(token vonage.Token) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the fixed token.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.token.Reveal(), nil
}

// RefreshToken always fails.
func (m *StaticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenCannotRefresh
}

// SetToken replaces the fixed token.
func (m *StaticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.token = vonage.NewSecret(token)
}
