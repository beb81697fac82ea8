package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/policy"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/service"
	"github.com/prohmpiriya/storefront-console/pkg/response"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ProductHandler serves the catalog and product, category and supplier management
type ProductHandler struct {
	products service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// Catalog handles GET /catalog
func (h *ProductHandler) Catalog(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.product.catalog")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var q service.CatalogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	span.SetAttributes(attribute.String("catalog.sort", string(q.Sort)), attribute.String("catalog.category", q.CategoryID))

	view, err := h.products.Catalog(ctx, q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, view)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var f policy.ProductFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		bindError(c, err)
		return
	}

	products, err := h.products.Products(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, products, len(products))
}

// Stock handles GET /products/stock
func (h *ProductHandler) Stock(c *gin.Context) {
	sum, err := h.products.StockSummary(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, sum)
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.products.CreateProduct(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, p)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	p, err := h.products.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, p)
}

// Delete handles DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.products.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// ListCategories handles GET /categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, categories, len(categories))
}

// CreateCategory handles POST /categories
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var in domain.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	cat, err := h.products.CreateCategory(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, cat)
}

// UpdateCategory handles PUT /categories/:id
func (h *ProductHandler) UpdateCategory(c *gin.Context) {
	var in domain.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	cat, err := h.products.UpdateCategory(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, cat)
}

// DeleteCategory handles DELETE /categories/:id
func (h *ProductHandler) DeleteCategory(c *gin.Context) {
	if err := h.products.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}

// ListSuppliers handles GET /suppliers
func (h *ProductHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.products.Suppliers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.List(c, suppliers, len(suppliers))
}

// CreateSupplier handles POST /suppliers
func (h *ProductHandler) CreateSupplier(c *gin.Context) {
	var in domain.SupplierInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	s, err := h.products.CreateSupplier(c.Request.Context(), in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, s)
}

// UpdateSupplier handles PUT /suppliers/:id
func (h *ProductHandler) UpdateSupplier(c *gin.Context) {
	var in domain.SupplierInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	s, err := h.products.UpdateSupplier(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, s)
}

// DeleteSupplier handles DELETE /suppliers/:id
func (h *ProductHandler) DeleteSupplier(c *gin.Context) {
	if err := h.products.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.NoContent(c)
}
