package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/delivery"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/service"
	"github.com/prohmpiriya/storefront-console/pkg/response"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// OrderHandler handles orders, deliveries and statistics
type OrderHandler struct {
	orders     service.OrderService
	deliveries delivery.Service
	stats      service.StatsService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders service.OrderService, deliveries delivery.Service, stats service.StatsService) *OrderHandler {
	return &OrderHandler{orders: orders, deliveries: deliveries, stats: stats}
}

// StatusRequest is the body of a delivery status change
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, orders, len(orders))
}

// ListDeliveries handles GET /deliveries
func (h *OrderHandler) ListDeliveries(c *gin.Context) {
	views, err := h.deliveries.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, views, len(views))
}

// UpdateDeliveryStatus handles PUT /deliveries/:id/status
func (h *OrderHandler) UpdateDeliveryStatus(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.delivery.update_status")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	id := c.Param("id")
	to := domain.DeliveryStatus(req.Status)
	span.SetAttributes(attribute.String("delivery_id", id), attribute.String("delivery.to", req.Status))

	views, err := h.deliveries.UpdateStatus(ctx, id, to)
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, views, len(views))
}

// Stats handles GET /stats
func (h *OrderHandler) Stats(c *gin.Context) {
	st, err := h.stats.Get(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, st)
}
