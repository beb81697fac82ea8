package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/repository"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Manager owns the current session token and the identity decoded from it.
// A Manager is either anonymous or authenticated, never in between.
type Manager struct {
	repo repository.TokenRepository
	log  *logger.Logger
	now  func() time.Time

	mu       sync.Mutex
	token    string
	identity domain.Identity
}

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces time.Now, used by tests
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// NewManager creates an anonymous session backed by repo
func NewManager(repo repository.TokenRepository, opts ...Option) *Manager {
	m := &Manager{
		repo: repo,
		log:  logger.Get(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login decodes token and, on success, persists it and adopts its identity.
// A malformed token leaves the session unchanged.
func (m *Manager) Login(ctx context.Context, token string) error {
	ctx, span := telemetry.StartSpan(ctx, "session.login")
	defer span.End()

	identity, err := Decode(token)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return err
	}
	span.SetAttributes(
		attribute.String("user_id", identity.ID),
		attribute.String("role", identity.Role.String()),
	)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.repo.Save(ctx, token, identity.ExpiresAt); err != nil {
		m.reset()
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.token = token
	m.identity = identity
	m.log.Info("session started",
		zap.String("user_id", identity.ID),
		zap.String("role", identity.Role.String()),
	)
	return nil
}

// Restore adopts the persisted token, if any. An undecodable or expired
// token is cleared and reported as ErrDecode or ErrSessionExpired.
// Expiry is checked only here.
func (m *Manager) Restore(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "session.restore")
	defer span.End()

	token, err := m.repo.Load(ctx)
	if errors.Is(err, domain.ErrTokenNotFound) {
		m.mu.Lock()
		m.reset()
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return fmt.Errorf("failed to load session: %w", err)
	}

	identity, err := Decode(token)
	if err != nil {
		m.log.Warn("discarding undecodable session token", zap.Error(err))
		return m.discard(ctx, err)
	}

	if !identity.Valid(m.now()) {
		m.log.Info("persisted session expired", zap.String("user_id", identity.ID))
		return m.discard(ctx, domain.ErrSessionExpired)
	}

	m.mu.Lock()
	m.token = token
	m.identity = identity
	m.mu.Unlock()
	return nil
}

// discard logs out and returns cause, or the logout error if that failed too
func (m *Manager) discard(ctx context.Context, cause error) error {
	telemetry.SetSpanError(ctx, cause)
	if err := m.Logout(ctx); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// Logout clears the persisted token and the identity. Calling it on an
// anonymous session is a no-op apart from clearing storage.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reset()
	if err := m.repo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// reset drops in-memory state; callers hold mu
func (m *Manager) reset() {
	m.token = ""
	m.identity = domain.Identity{}
}

// Identity returns the current identity and whether one is held
func (m *Manager) Identity() (domain.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return domain.Identity{}, false
	}
	return m.identity, true
}

// Token returns the raw token, empty when anonymous
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// IsAuthenticated reports whether a token is held
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}
