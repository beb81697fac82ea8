package client

import (
	"context"
	"net/http"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
)

// ListUsers returns all users (admin only upstream)
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/users", auth: authRequired, out: &out})
	return out, err
}

// UpdateUser changes a user's role and status
func (c *Client) UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) error {
	return c.do(ctx, call{method: http.MethodPut, path: itemPath("/api/users", id), auth: authRequired, body: upd})
}

// SupplierStats returns the caller's supplier statistics
func (c *Client) SupplierStats(ctx context.Context) (*domain.SupplierStats, error) {
	var out domain.SupplierStats
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/orders/stats/supplier", auth: authRequired, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminStats returns platform-wide statistics
func (c *Client) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	var out domain.AdminStats
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/stats/admin", auth: authRequired, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}
