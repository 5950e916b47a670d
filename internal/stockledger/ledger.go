// Package stockledger keeps product stock and availability status consistent
// with order lifecycle events. It is invoked by the order service inside the
// order's own transaction, so the product adjustment and the order write
// commit or roll back together.
package stockledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meridian-shop/meridian/internal/catalog"
	"github.com/meridian-shop/meridian/internal/shared"
)

// ProductStore is the slice of product persistence the ledger needs. The
// implementations lock the product row for the remainder of the transaction,
// which is what keeps concurrent orders from driving stock negative.
type ProductStore interface {
	FindForUpdateByName(ctx context.Context, name string) (catalog.Product, error)
	FindForUpdate(ctx context.Context, id int64) (catalog.Product, error)
	SaveStock(ctx context.Context, id int64, stock int, status catalog.Status) error
}

// InsufficientStockError reports a consumption request that exceeds the
// units available, carrying the exact count for the storefront message.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: only %d unit(s) available", e.Product, e.Available)
}

// ErrProductNotFound indicates the ordered product name has no match.
var ErrProductNotFound = fmt.Errorf("product %w", shared.ErrNotFound)

// Ledger applies inventory deltas. It never retries and never swallows a
// failure it detects; missing products on update/delete are the one
// documented skip, since the product may have been removed from the catalog
// after the order was placed.
type Ledger struct {
	logger *slog.Logger
}

// New constructs a Ledger.
func New(logger *slog.Logger) *Ledger {
	return &Ledger{logger: logger}
}

// OrderCreated consumes qty units of the named product. It fails with
// ErrProductNotFound when no product matches and with InsufficientStockError
// when fewer than qty units remain; the caller must not persist the order in
// either case. Reaching zero stock forces the Out of Stock status.
func (l *Ledger) OrderCreated(ctx context.Context, store ProductStore, productName string, qty int) (catalog.Product, error) {
	if qty <= 0 {
		return catalog.Product{}, fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
	}
	product, err := store.FindForUpdateByName(ctx, productName)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return catalog.Product{}, fmt.Errorf("%q: %w", productName, ErrProductNotFound)
		}
		return catalog.Product{}, err
	}
	if product.Stock < qty {
		return catalog.Product{}, &InsufficientStockError{Product: product.Name, Requested: qty, Available: product.Stock}
	}

	product.Stock -= qty
	if product.Stock == 0 {
		product.Status = catalog.StatusOutOfStock
	}
	if err := store.SaveStock(ctx, product.ID, product.Stock, product.Status); err != nil {
		return catalog.Product{}, err
	}
	return product, nil
}

// QuantityChanged applies the delta between an order's old and new quantity.
// A positive delta consumes additional stock and fails with
// InsufficientStockError when not enough units remain; a negative delta
// releases stock. Recovery from Out of Stock to Shown fires only out of that
// exact prior status, never from Hidden.
func (l *Ledger) QuantityChanged(ctx context.Context, store ProductStore, productID int64, oldQty, newQty int) error {
	delta := newQty - oldQty
	if delta == 0 {
		return nil
	}
	product, err := store.FindForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			l.log().Warn("stock adjustment skipped, product missing", "product_id", productID, "delta", delta)
			return nil
		}
		return err
	}
	if delta > 0 && product.Stock < delta {
		return &InsufficientStockError{Product: product.Name, Requested: delta, Available: product.Stock}
	}

	product.Stock -= delta
	switch {
	case product.Stock == 0:
		product.Status = catalog.StatusOutOfStock
	case product.Status == catalog.StatusOutOfStock:
		product.Status = catalog.StatusShown
	}
	return store.SaveStock(ctx, product.ID, product.Stock, product.Status)
}

// OrderDeleted restores qty units to the product. A missing product is
// skipped: the order deletion proceeds and the inventory is simply not
// restored.
func (l *Ledger) OrderDeleted(ctx context.Context, store ProductStore, productID int64, qty int) error {
	product, err := store.FindForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			l.log().Warn("stock restore skipped, product missing", "product_id", productID, "qty", qty)
			return nil
		}
		return err
	}

	product.Stock += qty
	if product.Stock > 0 && product.Status == catalog.StatusOutOfStock {
		product.Status = catalog.StatusShown
	}
	return store.SaveStock(ctx, product.ID, product.Stock, product.Status)
}

func (l *Ledger) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return slog.Default()
}
