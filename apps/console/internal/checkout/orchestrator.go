// Package checkout turns the session cart into a submitted order.
package checkout

import (
	"context"
	"sync/atomic"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/cart"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultConfirmationPath is the view shown after a successful checkout
const DefaultConfirmationPath = "/orders"

// OrderAPI submits orders to the storefront
type OrderAPI interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
}

// IdentitySource yields the current session identity
type IdentitySource interface {
	Identity() (domain.Identity, bool)
}

// Config holds checkout options
type Config struct {
	// RejectMixedSuppliers fails carts whose lines name more than one supplier.
	// When false the first line's supplier is used and a warning is logged.
	RejectMixedSuppliers bool
	ConfirmationPath     string
}

// Result is the outcome of a successful checkout
type Result struct {
	Order    *domain.Order       `json:"order"`
	Request  domain.OrderRequest `json:"request"`
	Totals   cart.Totals         `json:"totals"`
	Redirect string              `json:"redirect"`
}

// Orchestrator submits the cart as one order
type Orchestrator struct {
	api      OrderAPI
	session  IdentitySource
	cart     *cart.Cart
	config   Config
	log      *logger.Logger
	inFlight atomic.Bool
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(api OrderAPI, session IdentitySource, c *cart.Cart, cfg Config, log *logger.Logger) *Orchestrator {
	if cfg.ConfirmationPath == "" {
		cfg.ConfirmationPath = DefaultConfirmationPath
	}
	if log == nil {
		log = logger.Get()
	}
	return &Orchestrator{
		api:     api,
		session: session,
		cart:    c,
		config:  cfg,
		log:     log,
	}
}

// InFlight reports whether a submission is running
func (o *Orchestrator) InFlight() bool {
	return o.inFlight.Load()
}

// BuildOrder maps cart lines to an order payload. The supplier comes from
// the first line and the shipping address from the identity.
func (o *Orchestrator) BuildOrder(identity domain.Identity, lines []domain.CartLine) (domain.OrderRequest, error) {
	if len(lines) == 0 {
		return domain.OrderRequest{}, domain.ErrEmptyCart
	}

	supplierID := lines[0].Product.Supplier.ID
	items := make([]domain.OrderItem, 0, len(lines))
	mixed := false
	for _, l := range lines {
		items = append(items, domain.OrderItem{Product: l.Product.ID, Quantity: l.Quantity})
		if l.Product.Supplier.ID != supplierID {
			mixed = true
		}
	}

	if mixed {
		if o.config.RejectMixedSuppliers {
			return domain.OrderRequest{}, domain.ErrMixedSuppliers
		}
		o.log.Warn("cart spans several suppliers, ordering from the first",
			zap.String("supplier_id", supplierID),
			zap.Int("lines", len(lines)),
		)
	}

	return domain.OrderRequest{
		Products:        items,
		Supplier:        supplierID,
		ShippingAddress: identity.Address,
		Notes:           "",
	}, nil
}

// Checkout submits the cart in a single request. On success the submitted
// lines leave the cart; on any failure it is left as it was. Only one
// submission may run at a time.
func (o *Orchestrator) Checkout(ctx context.Context) (*Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "checkout.submit")
	defer span.End()

	identity, ok := o.session.Identity()
	if !ok {
		return nil, domain.ErrUnauthenticated
	}

	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrCheckoutInProgress
	}
	defer o.inFlight.Store(false)

	lines := o.cart.Lines()
	req, err := o.BuildOrder(identity, lines)
	if err != nil {
		return nil, err
	}
	totals := cart.ComputeTotals(lines)

	span.SetAttributes(
		attribute.String("user_id", identity.ID),
		attribute.String("supplier_id", req.Supplier),
		attribute.Int("lines", len(req.Products)),
	)

	order, err := o.api.CreateOrder(ctx, req)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		o.log.Warn("checkout failed, cart kept",
			zap.String("user_id", identity.ID),
			zap.Error(err),
		)
		return nil, err
	}

	o.cart.RemoveLines(lines)

	fields := []zap.Field{
		zap.String("user_id", identity.ID),
		zap.String("supplier_id", req.Supplier),
		zap.String("total", totals.Total.String()),
	}
	if order != nil {
		fields = append(fields, zap.String("order_id", order.ID))
	}
	o.log.Info("order placed", fields...)

	return &Result{
		Order:    order,
		Request:  req,
		Totals:   totals,
		Redirect: o.config.ConfirmationPath,
	}, nil
}
