package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/cart"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/checkout"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/pkg/response"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ProductLookup resolves a product id to its current catalog record
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

// Checkouter submits the cart
type Checkouter interface {
	Checkout(ctx context.Context) (*checkout.Result, error)
}

// CartHandler handles the session cart and checkout
type CartHandler struct {
	cart     *cart.Cart
	products ProductLookup
	checkout Checkouter
}

// NewCartHandler creates a new cart handler
func NewCartHandler(c *cart.Cart, products ProductLookup, co Checkouter) *CartHandler {
	return &CartHandler{cart: c, products: products, checkout: co}
}

// CartView is the cart as shown to the caller
type CartView struct {
	Lines  []domain.CartLine `json:"lines"`
	Count  int               `json:"count"`
	Totals cart.Totals       `json:"totals"`
}

// AddItemRequest adds a product to the cart; quantity defaults to one
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest replaces the quantity of a line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h *CartHandler) view() CartView {
	lines := h.cart.Lines()
	return CartView{Lines: lines, Count: len(lines), Totals: cart.ComputeTotals(lines)}
}

// Get handles GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	response.Success(c, h.view())
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.cart.add")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	span.SetAttributes(attribute.String("product_id", req.ProductID), attribute.Int("quantity", req.Quantity))

	p, err := h.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		handleError(c, err)
		return
	}
	if err := h.cart.Add(*p, req.Quantity); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, h.view())
}

// UpdateItem handles PUT /cart/items/:productId
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	id := c.Param("productId")
	if !h.cart.Contains(id) {
		handleError(c, domain.ErrProductNotInCart)
		return
	}
	h.cart.UpdateQuantity(id, req.Quantity)
	response.Success(c, h.view())
}

// RemoveItem handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.cart.Remove(c.Param("productId"))
	response.Success(c, h.view())
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	h.cart.Clear()
	response.Success(c, h.view())
}

// Checkout handles POST /checkout
func (h *CartHandler) Checkout(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.checkout")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	result, err := h.checkout.Checkout(ctx)
	if err != nil {
		handleError(c, err)
		return
	}
	if result.Order != nil {
		span.SetAttributes(attribute.String("order_id", result.Order.ID))
	}
	response.Created(c, result)
}
