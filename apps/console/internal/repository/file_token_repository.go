package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
)

const (
	consoleDirName = ".storefront-console"
	tokenFileName  = "token"
)

// FileTokenRepository stores the token in a single file under the console home directory
type FileTokenRepository struct {
	path string
}

// NewFileTokenRepository creates the console directory under home.
// An empty home falls back to the user's home directory.
func NewFileTokenRepository(home string) (*FileTokenRepository, error) {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
	}

	dir := filepath.Join(home, consoleDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	return &FileTokenRepository{path: filepath.Join(dir, tokenFileName)}, nil
}

// Path returns the token file location
func (r *FileTokenRepository) Path() string {
	return r.path
}

// Save overwrites the token file
func (r *FileTokenRepository) Save(_ context.Context, token string, _ time.Time) error {
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace token file: %w", err)
	}
	return nil
}

// Load reads the token file
func (r *FileTokenRepository) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", domain.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", domain.ErrTokenNotFound
	}
	return token, nil
}

// Clear removes the token file; a missing file is not an error
func (r *FileTokenRepository) Clear(_ context.Context) error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}
