package service

import (
	"context"
	"sort"
	"strings"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/policy"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/prohmpiriya/storefront-console/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stock thresholds used by the dashboard summary
const (
	WellStockedAbove = 10
	LowStockBelow    = 5
)

// CatalogSort orders the public catalog
type CatalogSort string

const (
	SortNone      CatalogSort = ""
	SortPriceAsc  CatalogSort = "price-asc"
	SortPriceDesc CatalogSort = "price-desc"
	SortNameAsc   CatalogSort = "name-asc"
	SortNameDesc  CatalogSort = "name-desc"
)

// IsValid checks if the sort key is known
func (s CatalogSort) IsValid() bool {
	switch s {
	case SortNone, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return true
	}
	return false
}

// CatalogQuery selects and orders the public catalog
type CatalogQuery struct {
	CategoryID string      `form:"category"`
	Sort       CatalogSort `form:"sort"`
}

// CatalogItem is a catalog product with its availability flag
type CatalogItem struct {
	domain.Product
	OutOfStock bool `json:"outOfStock"`
}

// CatalogView is the public catalog page
type CatalogView struct {
	Items      []CatalogItem     `json:"items"`
	Categories []domain.Category `json:"categories"`
}

// StockSummary is the dashboard stock overview
type StockSummary struct {
	Total       int              `json:"total"`
	WellStocked int              `json:"wellStocked"`
	Low         int              `json:"low"`
	OutOfStock  int              `json:"outOfStock"`
	LowStock    []domain.Product `json:"lowStock"`
}

// ProductService serves catalog and product management
type ProductService interface {
	// Catalog returns the public catalog; no session is needed
	Catalog(ctx context.Context, q CatalogQuery) (*CatalogView, error)

	// Products returns the products the current identity may see
	Products(ctx context.Context, f policy.ProductFilter) ([]domain.Product, error)

	// StockSummary summarizes stock levels over the visible products
	StockSummary(ctx context.Context) (*StockSummary, error)

	CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	Categories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	Suppliers(ctx context.Context) ([]domain.Supplier, error)
	CreateSupplier(ctx context.Context, in domain.SupplierInput) (*domain.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, in domain.SupplierInput) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
}

type productService struct {
	api     ProductAPI
	session IdentitySource
	log     *logger.Logger
}

// NewProductService creates a new product service
func NewProductService(api ProductAPI, session IdentitySource, log *logger.Logger) ProductService {
	if log == nil {
		log = logger.Get()
	}
	return &productService{api: api, session: session, log: log}
}

func (s *productService) Catalog(ctx context.Context, q CatalogQuery) (*CatalogView, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.catalog")
	defer span.End()

	if !q.Sort.IsValid() {
		return nil, domain.ErrInvalidSort
	}

	var (
		products   []domain.Product
		categories []domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.api.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.api.ListCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	items := make([]CatalogItem, 0, len(products))
	for _, p := range products {
		if q.CategoryID != "" && p.Category.ID != q.CategoryID {
			continue
		}
		items = append(items, CatalogItem{Product: p, OutOfStock: !p.InStock()})
	}
	sortCatalog(items, q.Sort)

	span.SetAttributes(attribute.Int("catalog.items", len(items)))
	if categories == nil {
		categories = []domain.Category{}
	}
	return &CatalogView{Items: items, Categories: categories}, nil
}

func sortCatalog(items []CatalogItem, by CatalogSort) {
	var less func(a, b domain.Product) bool
	switch by {
	case SortPriceAsc:
		less = func(a, b domain.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b domain.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNameAsc:
		less = func(a, b domain.Product) bool { return compareNames(a.Name, b.Name) < 0 }
	case SortNameDesc:
		less = func(a, b domain.Product) bool { return compareNames(a.Name, b.Name) > 0 }
	default:
		return
	}
	sort.SliceStable(items, func(i, j int) bool { return less(items[i].Product, items[j].Product) })
}

// compareNames orders case-insensitively, falling back to a byte compare
func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func (s *productService) Products(ctx context.Context, f policy.ProductFilter) ([]domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.list")
	defer span.End()

	identity, err := current(s.session)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(identity, policy.ResourceProducts) {
		return nil, domain.ErrForbidden
	}

	all, err := s.api.ListProducts(ctx)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}

	// Only admins may narrow by supplier
	if identity.Role != domain.RoleAdmin {
		f.SupplierID = ""
	}
	return policy.FilterProducts(identity, all, f), nil
}

func (s *productService) StockSummary(ctx context.Context) (*StockSummary, error) {
	products, err := s.Products(ctx, policy.ProductFilter{})
	if err != nil {
		return nil, err
	}
	return summarizeStock(products), nil
}

func summarizeStock(products []domain.Product) *StockSummary {
	sum := &StockSummary{Total: len(products), LowStock: []domain.Product{}}
	for _, p := range products {
		switch {
		case p.Quantity > WellStockedAbove:
			sum.WellStocked++
		case p.Quantity > 0:
			sum.Low++
		default:
			sum.OutOfStock++
		}
		if p.Quantity < LowStockBelow {
			sum.LowStock = append(sum.LowStock, p)
		}
	}
	return sum
}

func (s *productService) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.create")
	defer span.End()

	identity, err := current(s.session)
	if err != nil {
		return nil, err
	}
	if !policy.CanManage(identity, policy.ResourceProducts) {
		return nil, domain.ErrForbidden
	}
	// Suppliers always list under their own account
	if identity.Role == domain.RoleSupplier {
		in.Supplier = identity.ID
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := s.api.CreateProduct(ctx, in)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	s.log.Info("product created", zap.String("product_id", p.ID), zap.String("by", identity.ID))
	return p, nil
}

// authorizeProduct loads the product and checks ownership
func (s *productService) authorizeProduct(ctx context.Context, id string) (domain.Identity, error) {
	identity, err := current(s.session)
	if err != nil {
		return identity, err
	}
	if !policy.CanManage(identity, policy.ResourceProducts) {
		return identity, domain.ErrForbidden
	}
	if identity.Role == domain.RoleAdmin {
		return identity, nil
	}
	p, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return identity, err
	}
	if !policy.CanManageProduct(identity, *p) {
		return identity, domain.ErrForbidden
	}
	return identity, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.product.update")
	defer span.End()

	identity, err := s.authorizeProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Role == domain.RoleSupplier {
		in.Supplier = identity.ID
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := s.api.UpdateProduct(ctx, id, in)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	return p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.product.delete")
	defer span.End()

	identity, err := s.authorizeProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.api.DeleteProduct(ctx, id); err != nil {
		telemetry.SetSpanError(ctx, err)
		return err
	}
	s.log.Info("product deleted", zap.String("product_id", id), zap.String("by", identity.ID))
	return nil
}

// Categories are readable by anyone; the storefront serves them publicly
func (s *productService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.api.ListCategories(ctx)
}

func (s *productService) manage(resource policy.Resource) error {
	identity, err := current(s.session)
	if err != nil {
		return err
	}
	if !policy.CanManage(identity, resource) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *productService) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	if err := s.manage(policy.ResourceCategories); err != nil {
		return nil, err
	}
	return s.api.CreateCategory(ctx, in)
}

func (s *productService) UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	if err := s.manage(policy.ResourceCategories); err != nil {
		return nil, err
	}
	return s.api.UpdateCategory(ctx, id, in)
}

func (s *productService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.manage(policy.ResourceCategories); err != nil {
		return err
	}
	return s.api.DeleteCategory(ctx, id)
}

func (s *productService) Suppliers(ctx context.Context) ([]domain.Supplier, error) {
	identity, err := current(s.session)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(identity, policy.ResourceSuppliers) {
		return nil, domain.ErrForbidden
	}
	return s.api.ListSuppliers(ctx)
}

func (s *productService) CreateSupplier(ctx context.Context, in domain.SupplierInput) (*domain.Supplier, error) {
	if err := s.manage(policy.ResourceSuppliers); err != nil {
		return nil, err
	}
	return s.api.CreateSupplier(ctx, in)
}

func (s *productService) UpdateSupplier(ctx context.Context, id string, in domain.SupplierInput) (*domain.Supplier, error) {
	if err := s.manage(policy.ResourceSuppliers); err != nil {
		return nil, err
	}
	return s.api.UpdateSupplier(ctx, id, in)
}

func (s *productService) DeleteSupplier(ctx context.Context, id string) error {
	if err := s.manage(policy.ResourceSuppliers); err != nil {
		return err
	}
	return s.api.DeleteSupplier(ctx, id)
}
