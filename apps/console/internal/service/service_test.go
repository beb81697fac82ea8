package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/prohmpiriya/storefront-console/apps/console/internal/policy"
	"github.com/prohmpiriya/storefront-console/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorefront is an in-memory stand-in for the storefront client
type fakeStorefront struct {
	mu         sync.Mutex
	products   []domain.Product
	categories []domain.Category
	suppliers  []domain.Supplier
	orders     []domain.Order
	users      []domain.User
	supplier   *domain.SupplierStats
	admin      *domain.AdminStats
	err        error

	created     []domain.ProductInput
	deleted     []string
	userUpdates map[string]domain.UserUpdate
}

func (f *fakeStorefront) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func (f *fakeStorefront) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, &domain.RequestRejectedError{StatusCode: 404, Message: "not found"}
}

func (f *fakeStorefront) CreateProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, in)
	return &domain.Product{ID: "new", Name: in.Name, Supplier: domain.NewRef(in.Supplier)}, nil
}

func (f *fakeStorefront) UpdateProduct(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	return &domain.Product{ID: id, Name: in.Name, Supplier: domain.NewRef(in.Supplier)}, nil
}

func (f *fakeStorefront) DeleteProduct(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStorefront) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

func (f *fakeStorefront) CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	return &domain.Category{ID: "c-new", Name: in.Name}, nil
}

func (f *fakeStorefront) UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) (*domain.Category, error) {
	return &domain.Category{ID: id, Name: in.Name}, nil
}

func (f *fakeStorefront) DeleteCategory(ctx context.Context, id string) error { return nil }

func (f *fakeStorefront) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return f.suppliers, nil
}

func (f *fakeStorefront) CreateSupplier(ctx context.Context, in domain.SupplierInput) (*domain.Supplier, error) {
	return &domain.Supplier{ID: "s-new", Name: in.Name}, nil
}

func (f *fakeStorefront) UpdateSupplier(ctx context.Context, id string, in domain.SupplierInput) (*domain.Supplier, error) {
	return &domain.Supplier{ID: id, Name: in.Name}, nil
}

func (f *fakeStorefront) DeleteSupplier(ctx context.Context, id string) error { return nil }

func (f *fakeStorefront) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return f.orders, f.err
}

func (f *fakeStorefront) ListUsers(ctx context.Context) ([]domain.User, error) {
	return f.users, f.err
}

func (f *fakeStorefront) UpdateUser(ctx context.Context, id string, upd domain.UserUpdate) error {
	if f.userUpdates == nil {
		f.userUpdates = map[string]domain.UserUpdate{}
	}
	f.userUpdates[id] = upd
	return nil
}

func (f *fakeStorefront) SupplierStats(ctx context.Context) (*domain.SupplierStats, error) {
	return f.supplier, f.err
}

func (f *fakeStorefront) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	return f.admin, f.err
}

type staticSession struct {
	identity domain.Identity
	ok       bool
}

func (s staticSession) Identity() (domain.Identity, bool) {
	return s.identity, s.ok
}

func as(identity domain.Identity) staticSession {
	return staticSession{identity: identity, ok: true}
}

var (
	anonymous = staticSession{}
	admin     = domain.Identity{ID: "a1", Role: domain.RoleAdmin}
	supplier  = domain.Identity{ID: "s1", Role: domain.RoleSupplier}
	client    = domain.Identity{ID: "c1", Role: domain.RoleClient}
)

func product(id, name, price string, qty int, supplierID, categoryID string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
		Supplier: domain.NewRef(supplierID),
		Category: domain.NewRef(categoryID),
	}
}

func catalogFixture() *fakeStorefront {
	return &fakeStorefront{
		products: []domain.Product{
			product("p1", "banana", "3", 0, "s1", "fruit"),
			product("p2", "Apple", "5", 12, "s2", "fruit"),
			product("p3", "cheese", "1.5", 4, "s1", "dairy"),
			product("p4", "Bread", "5", 10, "s2", "bakery"),
		},
		categories: []domain.Category{{ID: "fruit", Name: "Fruit"}},
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func itemIDs(items []CatalogItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestCatalog_AnonymousAndSorted(t *testing.T) {
	svc := NewProductService(catalogFixture(), anonymous, logger.NewNop())

	tests := []struct {
		name  string
		query CatalogQuery
		want  []string
	}{
		{"unsorted keeps api order", CatalogQuery{}, []string{"p1", "p2", "p3", "p4"}},
		{"price asc is stable", CatalogQuery{Sort: SortPriceAsc}, []string{"p3", "p1", "p2", "p4"}},
		{"price desc", CatalogQuery{Sort: SortPriceDesc}, []string{"p2", "p4", "p1", "p3"}},
		{"name asc ignores case", CatalogQuery{Sort: SortNameAsc}, []string{"p2", "p1", "p4", "p3"}},
		{"name desc", CatalogQuery{Sort: SortNameDesc}, []string{"p3", "p4", "p1", "p2"}},
		{"category filter", CatalogQuery{CategoryID: "fruit"}, []string{"p1", "p2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.Catalog(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, itemIDs(view.Items))
			assert.Len(t, view.Categories, 1)
		})
	}
}

func TestCatalog_FlagsOutOfStock(t *testing.T) {
	svc := NewProductService(catalogFixture(), anonymous, logger.NewNop())

	view, err := svc.Catalog(context.Background(), CatalogQuery{})
	require.NoError(t, err)
	assert.True(t, view.Items[0].OutOfStock)
	assert.False(t, view.Items[1].OutOfStock)
}

func TestCatalog_UnknownSort(t *testing.T) {
	svc := NewProductService(catalogFixture(), anonymous, logger.NewNop())

	_, err := svc.Catalog(context.Background(), CatalogQuery{Sort: "random"})
	assert.ErrorIs(t, err, domain.ErrInvalidSort)
}

func TestProducts_RoleFiltered(t *testing.T) {
	tests := []struct {
		name    string
		session staticSession
		filter  policy.ProductFilter
		want    []string
		wantErr error
	}{
		{"supplier sees own", as(supplier), policy.ProductFilter{}, []string{"p1", "p3"}, nil},
		{"supplier cannot widen by supplier", as(supplier), policy.ProductFilter{SupplierID: "s2"}, []string{"p1", "p3"}, nil},
		{"admin filters by supplier", as(admin), policy.ProductFilter{SupplierID: "s2"}, []string{"p2", "p4"}, nil},
		{"admin category and supplier", as(admin), policy.ProductFilter{SupplierID: "s2", CategoryID: "fruit"}, []string{"p2"}, nil},
		{"anonymous", anonymous, policy.ProductFilter{}, nil, domain.ErrUnauthenticated},
		{"client", as(client), policy.ProductFilter{}, nil, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewProductService(catalogFixture(), tt.session, logger.NewNop())
			got, err := svc.Products(context.Background(), tt.filter)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestStockSummary(t *testing.T) {
	svc := NewProductService(catalogFixture(), as(admin), logger.NewNop())

	sum, err := svc.StockSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 1, sum.WellStocked)
	assert.Equal(t, 2, sum.Low)
	assert.Equal(t, 1, sum.OutOfStock)
	assert.Equal(t, []string{"p1", "p3"}, ids(sum.LowStock))
}

func TestCreateProduct_SupplierOwnsNewProduct(t *testing.T) {
	api := catalogFixture()
	svc := NewProductService(api, as(supplier), logger.NewNop())

	p, err := svc.CreateProduct(context.Background(), domain.ProductInput{
		Name: "Milk", Price: decimal.NewFromInt(2), Quantity: 3, Supplier: "s2",
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", p.Supplier.ID)
	require.Len(t, api.created, 1)
	assert.Equal(t, "s1", api.created[0].Supplier)
}

func TestCreateProduct_Rejected(t *testing.T) {
	api := catalogFixture()

	_, err := NewProductService(api, as(client), logger.NewNop()).
		CreateProduct(context.Background(), domain.ProductInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = NewProductService(api, as(admin), logger.NewNop()).
		CreateProduct(context.Background(), domain.ProductInput{Name: "x", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	assert.Empty(t, api.created)
}

func TestDeleteProduct_Ownership(t *testing.T) {
	api := catalogFixture()
	svc := NewProductService(api, as(supplier), logger.NewNop())

	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), "p2"), domain.ErrForbidden)
	require.NoError(t, svc.DeleteProduct(context.Background(), "p1"))
	assert.Equal(t, []string{"p1"}, api.deleted)
}

func TestCategoryAndSupplierManagement(t *testing.T) {
	api := catalogFixture()

	_, err := NewProductService(api, as(supplier), logger.NewNop()).
		CreateCategory(context.Background(), domain.CategoryInput{Name: "Tea"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	c, err := NewProductService(api, as(admin), logger.NewNop()).
		CreateCategory(context.Background(), domain.CategoryInput{Name: "Tea"})
	require.NoError(t, err)
	assert.Equal(t, "Tea", c.Name)

	_, err = NewProductService(api, as(client), logger.NewNop()).Suppliers(context.Background())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.ErrorIs(t,
		NewProductService(api, anonymous, logger.NewNop()).DeleteSupplier(context.Background(), "s1"),
		domain.ErrUnauthenticated)
}

func TestOrderService_List(t *testing.T) {
	api := &fakeStorefront{orders: []domain.Order{
		{ID: "o1", Supplier: domain.NewRef("s1"), Client: domain.NewRef("c1")},
		{ID: "o2", Supplier: domain.NewRef("s2"), Client: domain.NewRef("c2")},
		{ID: "o3", Supplier: domain.NewRef("s1"), Client: domain.NewRef("c2")},
	}}

	got, err := NewOrderService(api, as(supplier)).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = NewOrderService(api, as(client)).List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "o1", got[0].ID)

	got, err = NewOrderService(api, as(admin)).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = NewOrderService(api, anonymous).List(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestOrderService_PropagatesAPIError(t *testing.T) {
	api := &fakeStorefront{err: &domain.NetworkError{Op: "GET /api/orders", Err: errors.New("refused")}}

	_, err := NewOrderService(api, as(admin)).List(context.Background())
	assert.True(t, domain.IsNetworkError(err))
}

func usersFixture() *fakeStorefront {
	return &fakeStorefront{users: []domain.User{
		{ID: "u1", Role: domain.RoleClient, Status: domain.UserStatusActive},
		{ID: "u2", Role: domain.RoleSupplier, Status: domain.UserStatusSuspended},
		{ID: "u3", Role: domain.RoleClient, Status: domain.UserStatusInactive},
	}}
}

func TestUserService_List(t *testing.T) {
	svc := NewUserService(usersFixture(), as(admin), logger.NewNop())

	got, err := svc.List(context.Background(), policy.UserFilter{Role: domain.RoleClient})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.List(context.Background(), policy.UserFilter{Role: domain.RoleClient, Status: domain.UserStatusInactive})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u3", got[0].ID)

	_, err = NewUserService(usersFixture(), as(supplier), logger.NewNop()).List(context.Background(), policy.UserFilter{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserService_Update(t *testing.T) {
	api := usersFixture()
	svc := NewUserService(api, as(admin), logger.NewNop())

	_, err := svc.Update(context.Background(), "u1", domain.UserUpdate{Role: domain.RoleUnknown, Status: domain.UserStatusActive})
	assert.ErrorIs(t, err, domain.ErrInvalidUserUpdate)
	assert.Empty(t, api.userUpdates)

	upd := domain.UserUpdate{Role: domain.RoleSupplier, Status: domain.UserStatusActive}
	users, err := svc.Update(context.Background(), "u1", upd)
	require.NoError(t, err)
	assert.Len(t, users, 3)
	assert.Equal(t, upd, api.userUpdates["u1"])
}

func TestStatsService(t *testing.T) {
	api := &fakeStorefront{
		supplier: &domain.SupplierStats{TotalOrders: 3, CompletedOrders: 2, TotalRevenue: decimal.NewFromInt(100)},
		admin:    &domain.AdminStats{TotalUsers: 9},
	}

	st, err := NewStatsService(api, as(supplier)).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatsScopeSupplier, st.Scope)
	require.NotNil(t, st.CompletionRate)
	assert.Equal(t, "66.7", st.CompletionRate.String())
	assert.Equal(t, "33.33", st.AverageOrderValue.String())
	assert.Nil(t, st.Admin)

	st, err = NewStatsService(api, as(admin)).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatsScopeAdmin, st.Scope)
	assert.Equal(t, 9, st.Admin.TotalUsers)

	_, err = NewStatsService(api, as(client)).Get(context.Background())
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
