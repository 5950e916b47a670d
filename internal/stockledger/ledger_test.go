package stockledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-shop/meridian/internal/catalog"
	"github.com/meridian-shop/meridian/internal/shared"
)

type memoryStore struct {
	products map[int64]catalog.Product
	saves    int
}

func newMemoryStore(products ...catalog.Product) *memoryStore {
	m := &memoryStore{products: make(map[int64]catalog.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *memoryStore) FindForUpdateByName(ctx context.Context, name string) (catalog.Product, error) {
	for _, p := range m.products {
		if p.Name == name {
			return p, nil
		}
	}
	return catalog.Product{}, shared.ErrNotFound
}

func (m *memoryStore) FindForUpdate(ctx context.Context, id int64) (catalog.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return catalog.Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memoryStore) SaveStock(ctx context.Context, id int64, stock int, status catalog.Status) error {
	p := m.products[id]
	p.Stock = stock
	p.Status = status
	m.products[id] = p
	m.saves++
	return nil
}

func TestOrderCreatedConsumesStock(t *testing.T) {
	store := newMemoryStore(catalog.Product{ID: 1, Name: "Leather Bag", Stock: 5, Status: catalog.StatusShown})
	ledger := New(nil)
	ctx := context.Background()

	product, err := ledger.OrderCreated(ctx, store, "Leather Bag", 2)
	require.NoError(t, err)
	require.Equal(t, 3, product.Stock)
	require.Equal(t, catalog.StatusShown, product.Status)
	require.Equal(t, 3, store.products[1].Stock)
}

func TestOrderCreatedDepletionForcesOutOfStock(t *testing.T) {
	store := newMemoryStore(catalog.Product{ID: 1, Name: "Leather Bag", Stock: 5, Status: catalog.StatusShown})
	ledger := New(nil)

	product, err := ledger.OrderCreated(context.Background(), store, "Leather Bag", 5)
	require.NoError(t, err)
	require.Equal(t, 0, product.Stock)
	require.Equal(t, catalog.StatusOutOfStock, product.Status)
}

func TestOrderCreatedInsufficientStock(t *testing.T) {
	store := newMemoryStore(catalog.Product{ID: 1, Name: "Leather Bag", Stock: 5, Status: catalog.StatusShown})
	ledger := New(nil)

	_, err := ledger.OrderCreated(context.Background(), store, "Leather Bag", 6)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, 5, insufficient.Available)
	require.Contains(t, err.Error(), "only 5 unit(s) available")

	// The product must be left untouched.
	require.Equal(t, 5, store.products[1].Stock)
	require.Equal(t, 0, store.saves)
}

func TestOrderCreatedUnknownProduct(t *testing.T) {
	store := newMemoryStore()
	ledger := New(nil)

	_, err := ledger.OrderCreated(context.Background(), store, "Ghost", 1)
	require.ErrorIs(t, err, ErrProductNotFound)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderDeletedIsInverseOfCreated(t *testing.T) {
	store := newMemoryStore(catalog.Product{ID: 1, Name: "Leather Bag", Stock: 7, Status: catalog.StatusShown})
	ledger := New(nil)
	ctx := context.Background()

	_, err := ledger.OrderCreated(ctx, store, "Leather Bag", 4)
	require.NoError(t, err)
	require.NoError(t, ledger.OrderDeleted(ctx, store, 1, 4))
	require.Equal(t, 7, store.products[1].Stock)
}

func TestOrderDeletedRecoversStatus(t *testing.T) {
	store := newMemoryStore(catalog.Product{ID: 1, Name: "Leather Bag", Stock: 0, Status: catalog.StatusOutOfStock})
	ledger := New(nil)

	require.NoError(t, ledger.OrderDeleted(context.Background(), store, 1, 3))
	require.Equal(t, 3, store.products[1].Stock)
	require.Equal(t, catalog.StatusShown, store.products[1].Status)
}

func TestOrderDeletedMissingProductSkips(t *testing.T) {
	store := newMemoryStore()
	ledger := New(nil)

	require.NoError(t, ledger.OrderDeleted(context.Background(), store, 42, 3))
	require.Equal(t, 0, store.saves)
}

func TestQuantityChangedDeltaLaw(t *testing.T) {
	cases := []struct {
		name      string
		oldQty    int
		newQty    int
		wantStock int
	}{
		{"increase", 2, 5, 7},
		{"decrease", 5, 2, 13},
		{"unchanged", 3, 3, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newMemoryStore(catalog.Product{ID: 1, Name: "Leather Bag", Stock: 10, Status: catalog.StatusShown})
			ledger := New(nil)

			require.NoError(t, ledger.QuantityChanged(context.Background(), store, 1, tc.oldQty, tc.newQty))
			require.Equal(t, tc.wantStock, store.products[1].Stock)
		})
	}
}

func TestQuantityChangedInsufficientStock(t *testing.T) {
	store := newMemoryStore(catalog.Product{ID: 1, Name: "Leather Bag", Stock: 2, Status: catalog.StatusShown})
	ledger := New(nil)

	err := ledger.QuantityChanged(context.Background(), store, 1, 1, 5)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, 2, insufficient.Available)
	require.Equal(t, 2, store.products[1].Stock)
}

func TestQuantityChangedStatusTransitions(t *testing.T) {
	t.Run("depletion forces out of stock", func(t *testing.T) {
		store := newMemoryStore(catalog.Product{ID: 1, Name: "Leather Bag", Stock: 3, Status: catalog.StatusShown})
		ledger := New(nil)

		require.NoError(t, ledger.QuantityChanged(context.Background(), store, 1, 1, 4))
		require.Equal(t, 0, store.products[1].Stock)
		require.Equal(t, catalog.StatusOutOfStock, store.products[1].Status)
	})

	t.Run("release recovers only from out of stock", func(t *testing.T) {
		store := newMemoryStore(catalog.Product{ID: 1, Name: "Leather Bag", Stock: 0, Status: catalog.StatusOutOfStock})
		ledger := New(nil)

		require.NoError(t, ledger.QuantityChanged(context.Background(), store, 1, 5, 2))
		require.Equal(t, 3, store.products[1].Stock)
		require.Equal(t, catalog.StatusShown, store.products[1].Status)
	})

	t.Run("hidden stays hidden", func(t *testing.T) {
		store := newMemoryStore(catalog.Product{ID: 1, Name: "Leather Bag", Stock: 1, Status: catalog.StatusHidden})
		ledger := New(nil)

		require.NoError(t, ledger.QuantityChanged(context.Background(), store, 1, 5, 2))
		require.Equal(t, 4, store.products[1].Stock)
		require.Equal(t, catalog.StatusHidden, store.products[1].Status)
	})
}

func TestQuantityChangedMissingProductSkips(t *testing.T) {
	store := newMemoryStore()
	ledger := New(nil)

	require.NoError(t, ledger.QuantityChanged(context.Background(), store, 42, 1, 5))
	require.Equal(t, 0, store.saves)
}
