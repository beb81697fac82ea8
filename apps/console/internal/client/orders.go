package client

import (
	"context"
	"net/http"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
)

// ListOrders returns the orders the storefront lets the caller see
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/orders", auth: authRequired, out: &out})
	return out, err
}

// CreateOrder submits an order
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/orders", auth: authRequired, body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDeliveries returns the deliveries the storefront lets the caller see
func (c *Client) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	var out []domain.Delivery
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/deliveries", auth: authRequired, out: &out})
	return out, err
}

type statusUpdate struct {
	Status domain.DeliveryStatus `json:"status"`
}

// UpdateDeliveryStatus sets the status of one delivery
func (c *Client) UpdateDeliveryStatus(ctx context.Context, id string, status domain.DeliveryStatus) error {
	return c.do(ctx, call{
		method: http.MethodPut,
		path:   itemPath("/api/deliveries", id) + "/status",
		auth:   authRequired,
		body:   statusUpdate{Status: status},
	})
}
