// Package cart holds the shopping cart of the active session.
package cart

import (
	"sync"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
)

// Cart is an ordered list of lines with at most one line per product id.
// It is safe for concurrent use.
type Cart struct {
	mu         sync.Mutex
	lines      []domain.CartLine
	clampStock bool
}

// Option configures a Cart
type Option func(*Cart)

// WithStockClamp bounds quantities to [1, product stock] on every mutation
func WithStockClamp() Option {
	return func(c *Cart) { c.clampStock = true }
}

// New creates an empty cart
func New(opts ...Option) *Cart {
	c := &Cart{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cart) indexOf(productID string) int {
	for i, l := range c.lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) clamp(qty int, p domain.Product) int {
	if !c.clampStock {
		return qty
	}
	if qty > p.Quantity {
		qty = p.Quantity
	}
	if qty < 1 {
		qty = 1
	}
	return qty
}

// Add merges quantity into the line for product, or appends a new line.
// Quantities below one are rejected.
func (c *Cart) Add(product domain.Product, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	if c.clampStock && product.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(product.ID); i >= 0 {
		c.lines[i].Quantity = c.clamp(c.lines[i].Quantity+quantity, c.lines[i].Product)
		return nil
	}
	c.lines = append(c.lines, domain.CartLine{Product: product, Quantity: c.clamp(quantity, product)})
	return nil
}

// AddOne adds a single unit of product
func (c *Cart) AddOne(product domain.Product) error {
	return c.Add(product, 1)
}

// UpdateQuantity replaces the quantity of the line for productID.
// An unknown id is a no-op. The value is taken as given unless stock
// clamping is enabled.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.lines[i].Quantity = c.clamp(quantity, c.lines[i].Product)
}

// Remove drops the line for productID if present
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// RemoveLines takes submitted quantities out of the cart. Units added to a
// line after submitted was read stay; lines left at zero are dropped.
func (c *Cart) RemoveLines(submitted []domain.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range submitted {
		i := c.indexOf(s.Product.ID)
		if i < 0 {
			continue
		}
		if left := c.lines[i].Quantity - s.Quantity; left > 0 {
			c.lines[i].Quantity = left
			continue
		}
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Contains reports whether productID has a line
func (c *Cart) Contains(productID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(productID) >= 0
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len returns the number of lines
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Totals computes the totals of the current lines
func (c *Cart) Totals() Totals {
	return ComputeTotals(c.Lines())
}
