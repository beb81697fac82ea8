package service

import (
	"context"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/policy"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// OrderService lists orders for the current identity
type OrderService interface {
	List(ctx context.Context) ([]domain.Order, error)
}

type orderService struct {
	api     OrderAPI
	session IdentitySource
}

// NewOrderService creates a new order service
func NewOrderService(api OrderAPI, session IdentitySource) OrderService {
	return &orderService{api: api, session: session}
}

func (s *orderService) List(ctx context.Context) ([]domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.order.list")
	defer span.End()

	identity, err := current(s.session)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(identity, policy.ResourceOrders) {
		return nil, domain.ErrForbidden
	}

	all, err := s.api.ListOrders(ctx)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	orders := policy.FilterOrders(identity, all)
	span.SetAttributes(
		attribute.Int("orders.fetched", len(all)),
		attribute.Int("orders.visible", len(orders)),
	)
	return orders, nil
}
