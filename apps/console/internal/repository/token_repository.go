package repository

import (
	"context"
	"sync"
	"time"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
)

// TokenRepository persists the single raw session token.
// Load returns domain.ErrTokenNotFound when nothing is stored.
type TokenRepository interface {
	Save(ctx context.Context, token string, expiresAt time.Time) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// MemoryTokenRepository keeps the token in process memory
type MemoryTokenRepository struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenRepository creates an empty MemoryTokenRepository
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{}
}

// Save replaces the stored token
func (r *MemoryTokenRepository) Save(_ context.Context, token string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = token
	return nil
}

// Load returns the stored token
func (r *MemoryTokenRepository) Load(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.token == "" {
		return "", domain.ErrTokenNotFound
	}
	return r.token, nil
}

// Clear forgets the stored token
func (r *MemoryTokenRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.token = ""
	return nil
}
