package repo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/jsonshop/internal/models"
)

func newTestCartStore(t *testing.T) *CartStore {
	t.Helper()
	return NewCartStore(filepath.Join(t.TempDir(), "data", "carts.json"))
}

func TestCartStore_Scenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestCartStore(t)

	cart, err := s.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Cart{ID: 1, Products: []models.LineItem{}}, cart)

	cart, err = s.AddProduct(ctx, 1, 42)
	require.NoError(t, err)
	assert.Equal(t, models.Cart{ID: 1, Products: []models.LineItem{{Product: 42, Quantity: 1}}}, cart)

	cart, err = s.AddProduct(ctx, 1, 42)
	require.NoError(t, err)
	assert.Equal(t, models.Cart{ID: 1, Products: []models.LineItem{{Product: 42, Quantity: 2}}}, cart)

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, cart, got)
}

func TestCartStore_CreateAssignsIDsPerCollection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestCartStore(t)

	for i := 1; i <= 3; i++ {
		c, err := s.Create(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, c.ID)
	}
}

func TestCartStore_AddProductKeepsLineOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestCartStore(t)
	_, err := s.Create(ctx)
	require.NoError(t, err)

	for _, pid := range []int{5, 3, 5, 8, 3, 5} {
		_, err := s.AddProduct(ctx, 1, pid)
		require.NoError(t, err)
	}

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.LineItem{
		{Product: 5, Quantity: 3},
		{Product: 3, Quantity: 2},
		{Product: 8, Quantity: 1},
	}, got.Products)
}

func TestCartStore_AddProductTouchesOnlyTargetCart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestCartStore(t)
	_, err := s.Create(ctx)
	require.NoError(t, err)
	_, err = s.Create(ctx)
	require.NoError(t, err)

	_, err = s.AddProduct(ctx, 2, 7)
	require.NoError(t, err)

	first, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, first.Products)

	second, err := s.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []models.LineItem{{Product: 7, Quantity: 1}}, second.Products)
}

func TestCartStore_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestCartStore(t)

	_, err := s.GetByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Create(ctx)
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	_, err = s.AddProduct(ctx, 9, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCartStore_MissingProductsFieldReadsAsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestCartStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte(`[{"id":4}]`), 0o644))

	got, err := s.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.NotNil(t, got.Products)
	assert.Empty(t, got.Products)

	c, err := s.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, c.ID)
}

func TestCartStore_ConcurrentAddsNoLostUpdates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestCartStore(t)
	_, err := s.Create(ctx)
	require.NoError(t, err)

	const n = 25
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := s.AddProduct(ctx, 1, 42)
			return err
		})
	}
	require.NoError(t, g.Wait())

	got, err := s.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.LineItem{{Product: 42, Quantity: n}}, got.Products)
}
