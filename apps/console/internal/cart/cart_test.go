package cart

import (
	"sync"
	"testing"

	"github.com/prohmpiriya/storefront-console/apps/console/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, price string, stock int) domain.Product {
	return domain.Product{
		ID:       id,
		Price:    decimal.RequireFromString(price),
		Quantity: stock,
		Supplier: domain.NewRef("s1"),
	}
}

func TestAdd_MergesSameProduct(t *testing.T) {
	c := New()
	p := product("p1", "10", 100)

	require.NoError(t, c.Add(p, 2))
	require.NoError(t, c.Add(p, 3))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAdd_AppendsInInsertionOrder(t *testing.T) {
	c := New()
	require.NoError(t, c.AddOne(product("b", "1", 5)))
	require.NoError(t, c.AddOne(product("a", "1", 5)))
	require.NoError(t, c.AddOne(product("b", "1", 5)))
	require.NoError(t, c.AddOne(product("c", "1", 5)))

	var ids []string
	for _, l := range c.Lines() {
		ids = append(ids, l.Product.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestAdd_RejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Add(product("p1", "1", 5), 0), domain.ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestRemoveThenAdd_NoResidualMerge(t *testing.T) {
	c := New()
	p := product("p1", "10", 100)

	require.NoError(t, c.Add(p, 4))
	c.Remove("p1")
	require.NoError(t, c.Add(p, 3))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product("p1", "10", 2), 1))

	c.UpdateQuantity("p1", 50)
	assert.Equal(t, 50, c.Lines()[0].Quantity, "no clamping by default")

	c.UpdateQuantity("missing", 3)
	assert.Equal(t, 1, c.Len())
}

func TestWithStockClamp(t *testing.T) {
	c := New(WithStockClamp())
	p := product("p1", "10", 3)

	require.NoError(t, c.Add(p, 2))
	require.NoError(t, c.Add(p, 5))
	assert.Equal(t, 3, c.Lines()[0].Quantity)

	c.UpdateQuantity("p1", 0)
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	assert.ErrorIs(t, c.AddOne(product("p2", "1", 0)), domain.ErrInvalidQuantity)
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	require.NoError(t, c.AddOne(product("p1", "1", 5)))
	require.NoError(t, c.AddOne(product("p2", "1", 5)))

	c.Remove("unknown")
	assert.Equal(t, 2, c.Len())

	c.Remove("p1")
	assert.False(t, c.Contains("p1"))
	assert.True(t, c.Contains("p2"))

	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestRemoveLines_KeepsLaterAdditions(t *testing.T) {
	c := New()
	p1 := product("p1", "10", 100)
	p2 := product("p2", "5", 100)
	require.NoError(t, c.Add(p1, 2))
	submitted := c.Lines()

	require.NoError(t, c.Add(p1, 1))
	require.NoError(t, c.Add(p2, 3))

	c.RemoveLines(submitted)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].Product.ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, "p2", lines[1].Product.ID)
	assert.Equal(t, 3, lines[1].Quantity)

	c.RemoveLines([]domain.CartLine{{Product: p1, Quantity: 5}, {Product: product("gone", "1", 1), Quantity: 1}})
	lines = c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].Product.ID)
}

func TestLines_ReturnsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product("p1", "1", 5), 2))

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestComputeTotals(t *testing.T) {
	lines := []domain.CartLine{
		{Product: product("p1", "10", 10), Quantity: 2},
		{Product: product("p2", "5", 10), Quantity: 1},
	}

	got := ComputeTotals(lines)
	assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(25)), got.Subtotal.String())
	assert.True(t, got.Taxes.Equal(decimal.RequireFromString("2.5")), got.Taxes.String())
	assert.True(t, got.Total.Equal(decimal.RequireFromString("27.5")), got.Total.String())
}

func TestComputeTotals_Empty(t *testing.T) {
	got := ComputeTotals(nil)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestTotals_RecomputedOnRead(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(product("p1", "10", 10), 1))
	assert.Equal(t, "11", c.Totals().Total.String())

	c.UpdateQuantity("p1", 3)
	assert.Equal(t, "33", c.Totals().Total.String())
}

func TestCart_ConcurrentAdds(t *testing.T) {
	c := New()
	p := product("p1", "1", 1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.AddOne(p)
		}()
	}
	wg.Wait()

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 50, c.Lines()[0].Quantity)
}
