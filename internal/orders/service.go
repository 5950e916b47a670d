package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/meridian-shop/meridian/internal/shared"
	"github.com/meridian-shop/meridian/internal/stockledger"
)

// DefaultPaymentMethod is stamped on orders placed through checkout.
const DefaultPaymentMethod = "Cash on Delivery"

// Service coordinates order operations. Every mutation runs the stock ledger
// and the order write inside one transaction, so a ledger failure leaves
// both the product and the order untouched.
type Service struct {
	repo        Repository
	ledger      *stockledger.Ledger
	audit       AuditPort
	idempotency *shared.IdempotencyStore
	statsCache  *StatsCache
	warmups     StatsWarmupQueue
	validate    *validator.Validate
	statsGroup  singleflight.Group
}

// AuditPort abstracts audit logging.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// StatsWarmupQueue schedules a background stats recompute, so the cache does
// not stay cold between an order mutation and the next cron run.
type StatsWarmupQueue interface {
	EnqueueStatsWarmup(ctx context.Context) error
}

// NewService builds Service. audit, idempotency, statsCache and warmups are
// optional.
func NewService(repo Repository, ledger *stockledger.Ledger, audit AuditPort, idem *shared.IdempotencyStore, statsCache *StatsCache, warmups StatsWarmupQueue) *Service {
	return &Service{
		repo:        repo,
		ledger:      ledger,
		audit:       audit,
		idempotency: idem,
		statsCache:  statsCache,
		warmups:     warmups,
		validate:    validator.New(),
	}
}

// Create places an order: the product is resolved by name, stock is
// consumed, and the total is stamped server-side from the product's price.
// idemKey, when non-empty, deduplicates retried checkout submissions.
func (s *Service) Create(ctx context.Context, input CreateOrderInput, idemKey string) (Order, error) {
	if err := s.validate.Struct(input); err != nil {
		return Order{}, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	city, ok := matchCity(input.City)
	if !ok {
		return Order{}, fmt.Errorf("%w: unknown city %q", shared.ErrValidation, input.City)
	}

	insertedKey := false
	if s.idempotency != nil && idemKey != "" {
		if err := s.idempotency.CheckAndInsert(ctx, idemKey, "orders"); err != nil {
			return Order{}, err
		}
		insertedKey = true
	}

	var order Order
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		product, err := s.ledger.OrderCreated(ctx, tx, strings.TrimSpace(input.Product), input.Quantity)
		if err != nil {
			return err
		}
		order = Order{
			CustomerName:  strings.TrimSpace(input.CustomerName),
			Phone:         strings.TrimSpace(input.Phone),
			ProductID:     product.ID,
			ProductName:   product.Name,
			ProductImage:  product.Image,
			Quantity:      input.Quantity,
			City:          city,
			Address:       strings.TrimSpace(input.Address),
			Total:         product.Price * float64(input.Quantity),
			Status:        OrderStatusPending,
			PaymentMethod: DefaultPaymentMethod,
			Comment:       strings.TrimSpace(input.Comment),
		}
		order, err = tx.Insert(ctx, order)
		return err
	})
	if err != nil {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, idemKey)
		}
		return Order{}, err
	}

	s.invalidateStats(ctx)
	s.record(ctx, "order:create", order.ID, map[string]any{"product": order.ProductName, "quantity": order.Quantity})
	return order, nil
}

// Update edits an admin-visible order. A quantity change applies the stock
// delta inside the same transaction and restamps the total from the
// order-time unit price, never the client payload.
func (s *Service) Update(ctx context.Context, id int64, input UpdateOrderInput) (Order, error) {
	if err := s.validate.Struct(input); err != nil {
		return Order{}, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	city, ok := matchCity(input.City)
	if !ok {
		return Order{}, fmt.Errorf("%w: unknown city %q", shared.ErrValidation, input.City)
	}
	status := OrderStatus(input.Status)
	if !status.Valid() {
		return Order{}, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, input.Status)
	}

	var updated Order
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if input.Quantity != existing.Quantity {
			if err := s.ledger.QuantityChanged(ctx, tx, existing.ProductID, existing.Quantity, input.Quantity); err != nil {
				return err
			}
		}

		updated = existing
		updated.CustomerName = strings.TrimSpace(input.CustomerName)
		updated.Phone = strings.TrimSpace(input.Phone)
		updated.Quantity = input.Quantity
		updated.City = city
		updated.Address = strings.TrimSpace(input.Address)
		updated.Status = status
		updated.Comment = strings.TrimSpace(input.Comment)
		updated.Total = unitPrice(existing) * float64(input.Quantity)
		return tx.Update(ctx, id, updated)
	})
	if err != nil {
		return Order{}, err
	}

	s.invalidateStats(ctx)
	s.record(ctx, "order:update", id, map[string]any{"quantity": updated.Quantity, "status": string(updated.Status)})
	return updated, nil
}

// Delete removes an order and restores its stock in the same transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.ledger.OrderDeleted(ctx, tx, existing.ProductID, existing.Quantity); err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.invalidateStats(ctx)
	s.record(ctx, "order:delete", id, nil)
	return nil
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id int64) (Order, error) {
	if id <= 0 {
		return Order{}, shared.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Stats returns the dashboard overview, served from the Redis cache when
// warm. Concurrent recomputations are collapsed to a single query.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	if s.statsCache != nil {
		if stats, ok := s.statsCache.Get(ctx); ok {
			return stats, nil
		}
	}
	v, err, _ := s.statsGroup.Do("stats", func() (any, error) {
		return s.RefreshStats(ctx)
	})
	if err != nil {
		return Stats{}, err
	}
	return v.(Stats), nil
}

// RefreshStats recomputes the overview and rewrites the cache. The warmup
// job calls this directly.
func (s *Service) RefreshStats(ctx context.Context) (Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	if s.statsCache != nil {
		s.statsCache.Set(ctx, stats)
	}
	return stats, nil
}

// invalidateStats drops the cached overview and queues a recompute. Both are
// best effort; the next Stats call recomputes on a miss either way.
func (s *Service) invalidateStats(ctx context.Context) {
	if s.statsCache != nil {
		s.statsCache.Invalidate(ctx)
	}
	if s.warmups != nil {
		_ = s.warmups.EnqueueStatsWarmup(ctx)
	}
}

func (s *Service) record(ctx context.Context, action string, orderID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	actor := shared.AdminIDFromContext(ctx)
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor,
		Action:   action,
		Entity:   "order",
		EntityID: fmt.Sprintf("%d", orderID),
		Meta:     meta,
	})
}

func unitPrice(o Order) float64 {
	if o.Quantity <= 0 {
		return 0
	}
	return o.Total / float64(o.Quantity)
}
