package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
)

func itemPath(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}

// ListProducts returns the whole catalog. The token is sent when present.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/products", auth: authOptional, out: &out})
	return out, err
}

// GetProduct returns one product
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, call{method: http.MethodGet, path: itemPath("/api/products", id), auth: authOptional, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProduct adds a product
func (c *Client) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/products", auth: authRequired, body: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct replaces a product
func (c *Client) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, call{method: http.MethodPut, path: itemPath("/api/products", id), auth: authRequired, body: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProduct removes a product
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: itemPath("/api/products", id), auth: authRequired})
}

// ListCategories returns all categories
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/categories", auth: authOptional, out: &out})
	return out, err
}

// CreateCategory adds a category
func (c *Client) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/categories", auth: authRequired, body: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory replaces a category
func (c *Client) UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, call{method: http.MethodPut, path: itemPath("/api/categories", id), auth: authRequired, body: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory removes a category
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: itemPath("/api/categories", id), auth: authRequired})
}

// ListSuppliers returns all suppliers
func (c *Client) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	var out []domain.Supplier
	err := c.do(ctx, call{method: http.MethodGet, path: "/api/suppliers", auth: authOptional, out: &out})
	return out, err
}

// CreateSupplier adds a supplier
func (c *Client) CreateSupplier(ctx context.Context, in domain.SupplierInput) (*domain.Supplier, error) {
	var out domain.Supplier
	if err := c.do(ctx, call{method: http.MethodPost, path: "/api/suppliers", auth: authRequired, body: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSupplier replaces a supplier
func (c *Client) UpdateSupplier(ctx context.Context, id string, in domain.SupplierInput) (*domain.Supplier, error) {
	var out domain.Supplier
	if err := c.do(ctx, call{method: http.MethodPut, path: itemPath("/api/suppliers", id), auth: authRequired, body: in, out: &out}); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSupplier removes a supplier
func (c *Client) DeleteSupplier(ctx context.Context, id string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: itemPath("/api/suppliers", id), auth: authRequired})
}
