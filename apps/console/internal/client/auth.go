package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
)

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var res domain.AuthResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/auth/login", body: creds, out: &res}); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", fmt.Errorf("login: %w: empty token in response", domain.ErrDecode)
	}
	return res.Token, nil
}

// Register creates a client account and returns its token
func (c *Client) Register(ctx context.Context, reg domain.Registration) (string, error) {
	var res domain.AuthResult
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/auth/register", body: reg, out: &res}); err != nil {
		return "", err
	}
	if res.Token == "" {
		return "", fmt.Errorf("register: %w: empty token in response", domain.ErrDecode)
	}
	return res.Token, nil
}

// UpdateProfile changes the caller's own profile
func (c *Client) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) error {
	return c.do(ctx, call{method: http.MethodPut, path: "/api/auth/profile", auth: authRequired, body: upd})
}
