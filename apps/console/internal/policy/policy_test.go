package policy

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = domain.Identity{ID: "a1", Role: domain.RoleAdmin}
	supplier = domain.Identity{ID: "s1", Role: domain.RoleSupplier}
	client   = domain.Identity{ID: "c1", Role: domain.RoleClient}
	unknown  = domain.Identity{ID: "x1", Role: domain.RoleUnknown}
)

func product(id, supplierID, categoryID string) domain.Product {
	return domain.Product{
		ID:       id,
		Supplier: domain.NewRef(supplierID),
		Category: domain.NewRef(categoryID),
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestCanView(t *testing.T) {
	assert.True(t, CanView(admin, ResourceUsers))
	assert.True(t, CanView(admin, ResourceReports))

	assert.True(t, CanView(supplier, ResourceProducts))
	assert.True(t, CanView(supplier, ResourceStats))
	assert.False(t, CanView(supplier, ResourceUsers))
	assert.False(t, CanView(supplier, ResourceCart))

	assert.True(t, CanView(client, ResourceCart))
	assert.True(t, CanView(client, ResourceDeliveries))
	assert.False(t, CanView(client, ResourceStats))
	assert.False(t, CanView(client, ResourceSuppliers))

	assert.True(t, CanView(domain.Identity{}, ResourceCatalog))
	assert.False(t, CanView(unknown, ResourceProducts))
}

func TestCanManage(t *testing.T) {
	assert.True(t, CanManage(admin, ResourceCategories))
	assert.True(t, CanManage(supplier, ResourceProducts))
	assert.False(t, CanManage(supplier, ResourceCategories))
	assert.True(t, CanManage(client, ResourceCart))
	assert.False(t, CanManage(client, ResourceProducts))
	assert.False(t, CanManage(unknown, ResourceCart))
}

func TestCanManageProduct(t *testing.T) {
	own := product("p1", "s1", "c")
	other := product("p2", "s2", "c")

	assert.True(t, CanManageProduct(admin, other))
	assert.True(t, CanManageProduct(supplier, own))
	assert.False(t, CanManageProduct(supplier, other))
	assert.False(t, CanManageProduct(client, own))
}

func TestFilterProducts_ByRole(t *testing.T) {
	products := []domain.Product{
		product("p1", "s1", "c1"),
		product("p2", "s2", "c1"),
		product("p3", "s1", "c2"),
	}

	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(FilterProducts(admin, products, ProductFilter{})))
	assert.Equal(t, []string{"p1", "p3"}, ids(FilterProducts(supplier, products, ProductFilter{})))
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(FilterProducts(client, products, ProductFilter{})))
	assert.Empty(t, FilterProducts(unknown, products, ProductFilter{}))
}

func TestFilterProducts_Conjunctive(t *testing.T) {
	products := []domain.Product{
		product("p1", "s1", "c1"),
		product("p2", "s2", "c1"),
		product("p3", "s1", "c2"),
	}

	assert.Equal(t, []string{"p1"}, ids(FilterProducts(supplier, products, ProductFilter{CategoryID: "c1"})))
	assert.Empty(t, FilterProducts(supplier, products, ProductFilter{SupplierID: "s2"}))
	assert.Equal(t, []string{"p2"}, ids(FilterProducts(admin, products, ProductFilter{CategoryID: "c1", SupplierID: "s2"})))
}

func TestFilterProducts_DoesNotTouchInput(t *testing.T) {
	products := []domain.Product{product("p1", "s2", "c"), product("p2", "s1", "c")}
	before := append([]domain.Product(nil), products...)

	out := FilterProducts(supplier, products, ProductFilter{})
	require.Len(t, out, 1)
	out[0].Name = "changed"

	assert.Equal(t, before, products)
}

func TestFilterProducts_SupplierNeverSeesForeignProducts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	suppliers := []string{"s1", "s2", "s3", ""}

	for i := 0; i < 200; i++ {
		n := rng.Intn(30)
		products := make([]domain.Product, n)
		for j := range products {
			products[j] = product(fmt.Sprintf("p%d", j), suppliers[rng.Intn(len(suppliers))], "c")
		}

		out := FilterProducts(supplier, products, ProductFilter{})
		for _, p := range out {
			require.Equal(t, "s1", p.Supplier.ID)
		}

		// order preserved: out is a subsequence of products
		k := 0
		for _, p := range products {
			if k < len(out) && p.ID == out[k].ID {
				k++
			}
		}
		require.Equal(t, len(out), k)
	}
}

func TestFilterProducts_SupplierWithoutID(t *testing.T) {
	products := []domain.Product{product("p1", "", "c")}
	assert.Empty(t, FilterProducts(domain.Identity{Role: domain.RoleSupplier}, products, ProductFilter{}))
}

func TestFilterOrders(t *testing.T) {
	orders := []domain.Order{
		{ID: "o1", Client: domain.NewRef("c1"), Supplier: domain.NewRef("s1")},
		{ID: "o2", Client: domain.NewRef("c2"), Supplier: domain.NewRef("s1")},
		{ID: "o3", Client: domain.NewRef("c1"), Supplier: domain.NewRef("s2")},
	}
	orderIDs := func(os []domain.Order) []string {
		out := []string{}
		for _, o := range os {
			out = append(out, o.ID)
		}
		return out
	}

	assert.Equal(t, []string{"o1", "o2", "o3"}, orderIDs(FilterOrders(admin, orders)))
	assert.Equal(t, []string{"o1", "o2"}, orderIDs(FilterOrders(supplier, orders)))
	assert.Equal(t, []string{"o1", "o3"}, orderIDs(FilterOrders(client, orders)))
	assert.Empty(t, FilterOrders(unknown, orders))
}

func TestFilterDeliveries(t *testing.T) {
	deliveries := []domain.Delivery{
		{ID: "d1", Deliverer: domain.NewRef("s1"), Order: domain.DeliveryOrder{ID: "o1", Client: domain.NewRef("c1")}},
		{ID: "d2", Deliverer: domain.NewRef("s2"), Order: domain.DeliveryOrder{ID: "o2", Client: domain.NewRef("c1")}},
		{ID: "d3", Deliverer: domain.NewRef("s1"), Order: domain.DeliveryOrder{ID: "o3"}},
	}
	deliveryIDs := func(ds []domain.Delivery) []string {
		out := []string{}
		for _, d := range ds {
			out = append(out, d.ID)
		}
		return out
	}

	assert.Equal(t, []string{"d1", "d2", "d3"}, deliveryIDs(FilterDeliveries(admin, deliveries)))
	assert.Equal(t, []string{"d1", "d3"}, deliveryIDs(FilterDeliveries(supplier, deliveries)))
	assert.Equal(t, []string{"d1", "d2"}, deliveryIDs(FilterDeliveries(client, deliveries)))
	assert.Empty(t, FilterDeliveries(unknown, deliveries))
}

func TestFilterUsers(t *testing.T) {
	users := []domain.User{
		{ID: "u1", Role: domain.RoleClient, Status: domain.UserStatusActive},
		{ID: "u2", Role: domain.RoleSupplier, Status: domain.UserStatusSuspended},
		{ID: "u3", Role: domain.RoleClient, Status: domain.UserStatusInactive},
	}

	assert.Len(t, FilterUsers(admin, users, UserFilter{}), 3)
	assert.Len(t, FilterUsers(admin, users, UserFilter{Role: domain.RoleClient}), 2)
	got := FilterUsers(admin, users, UserFilter{Role: domain.RoleClient, Status: domain.UserStatusInactive})
	require.Len(t, got, 1)
	assert.Equal(t, "u3", got[0].ID)

	assert.Empty(t, FilterUsers(supplier, users, UserFilter{}))
	assert.Empty(t, FilterUsers(client, users, UserFilter{}))
}

func TestParseUserFilter(t *testing.T) {
	f, err := ParseUserFilter("fournisseur", "suspended")
	require.NoError(t, err)
	assert.Equal(t, UserFilter{Role: domain.RoleSupplier, Status: domain.UserStatusSuspended}, f)

	f, err = ParseUserFilter("", "")
	require.NoError(t, err)
	assert.Equal(t, UserFilter{}, f)

	_, err = ParseUserFilter("root", "")
	assert.Error(t, err)
	_, err = ParseUserFilter("", "banned")
	assert.Error(t, err)
}

func TestCanUpdateStatus_Matrix(t *testing.T) {
	deliverers := []string{"s1", "s2", "a1", "c1", ""}

	for _, deliverer := range deliverers {
		d := domain.Delivery{ID: "d", Deliverer: domain.NewRef(deliverer)}

		assert.True(t, CanUpdateStatus(admin, d), "admin, deliverer %q", deliverer)
		assert.Equal(t, deliverer == "s1", CanUpdateStatus(supplier, d), "supplier, deliverer %q", deliverer)
		assert.False(t, CanUpdateStatus(client, d), "client, deliverer %q", deliverer)
		assert.False(t, CanUpdateStatus(unknown, d), "unknown, deliverer %q", deliverer)
	}
}

func TestStatsScope(t *testing.T) {
	assert.Equal(t, domain.StatsScopeAdmin, StatsScope(admin))
	assert.Equal(t, domain.StatsScopeSupplier, StatsScope(supplier))
	assert.Equal(t, domain.StatsScopeNone, StatsScope(client))
	assert.Equal(t, domain.StatsScopeNone, StatsScope(unknown))
}

func TestPolicy_CheckTransition(t *testing.T) {
	delivered := domain.Delivery{ID: "d", Deliverer: domain.NewRef("s1"), Status: domain.DeliveryStatusDelivered}
	inTransit := domain.Delivery{ID: "d", Deliverer: domain.NewRef("s1"), Status: domain.DeliveryStatusInTransit}

	lenient := New(false)
	strict := New(true)

	// Any status from any status when ordering is not enforced
	assert.NoError(t, lenient.CheckTransition(supplier, delivered, domain.DeliveryStatusPending))
	assert.True(t, lenient.CanTransition(admin, delivered, domain.DeliveryStatusPending))

	assert.ErrorIs(t, strict.CheckTransition(supplier, delivered, domain.DeliveryStatusPending), domain.ErrInvalidTransition)
	assert.NoError(t, strict.CheckTransition(supplier, inTransit, domain.DeliveryStatusDelivered))
	assert.NoError(t, strict.CheckTransition(admin, inTransit, domain.DeliveryStatusFailed))

	assert.ErrorIs(t, lenient.CheckTransition(client, inTransit, domain.DeliveryStatusDelivered), domain.ErrForbidden)
	assert.ErrorIs(t, lenient.CheckTransition(domain.Identity{ID: "s2", Role: domain.RoleSupplier}, inTransit, domain.DeliveryStatusDelivered), domain.ErrForbidden)
	assert.ErrorIs(t, lenient.CheckTransition(admin, inTransit, "lost"), domain.ErrInvalidStatus)
}
