package orders

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-shop/meridian/internal/catalog"
	"github.com/meridian-shop/meridian/internal/shared"
)

// Repository persists orders in PostgreSQL.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context, filters ListFilters) ([]Order, int, error)
	Get(ctx context.Context, id int64) (Order, error)
	Stats(ctx context.Context) (Stats, error)
}

// TxRepository exposes the writes that must share a transaction with the
// stock ledger. It doubles as the ledger's ProductStore so the product row
// lock and the order write commit together.
type TxRepository interface {
	Get(ctx context.Context, id int64) (Order, error)
	Insert(ctx context.Context, order Order) (Order, error)
	Update(ctx context.Context, id int64, order Order) error
	Delete(ctx context.Context, id int64) error

	FindForUpdateByName(ctx context.Context, name string) (catalog.Product, error)
	FindForUpdate(ctx context.Context, id int64) (catalog.Product, error)
	SaveStock(ctx context.Context, id int64, stock int, status catalog.Status) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, &txRepo{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const orderColumns = `id, customer_name, phone, product_id, product_name, product_image, quantity, city, address, total, status, payment_method, comment, created_at, updated_at`

func (r *repository) List(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if filters.Product != "" {
		argCount++
		where += ` AND product_name = $` + strconv.Itoa(argCount)
		args = append(args, filters.Product)
	}
	if filters.City != "" {
		argCount++
		where += ` AND city = $` + strconv.Itoa(argCount)
		args = append(args, filters.City)
	}
	if filters.Status != "" {
		argCount++
		where += ` AND status = $` + strconv.Itoa(argCount)
		args = append(args, filters.Status)
	}
	if filters.Search != "" {
		argCount++
		where += ` AND (customer_name ILIKE $` + strconv.Itoa(argCount) + ` OR phone ILIKE $` + strconv.Itoa(argCount) + `)`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where + ` ORDER BY created_at DESC`
	if filters.Limit > 0 {
		argCount++
		query += ` LIMIT $` + strconv.Itoa(argCount)
		args = append(args, filters.Limit)

		argCount++
		query += ` OFFSET $` + strconv.Itoa(argCount)
		args = append(args, shared.NewPagination(filters.Page, filters.Limit, total).Offset())
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Order, error) {
	return getOrder(ctx, r.pool, id)
}

func (r *repository) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'Pending'),
		       COUNT(*) FILTER (WHERE status = 'Confirmed'),
		       COUNT(*) FILTER (WHERE status = 'Shipping'),
		       COUNT(*) FILTER (WHERE status = 'Delivered'),
		       COUNT(*) FILTER (WHERE status = 'Cancelled'),
		       COALESCE(SUM(total) FILTER (WHERE status <> 'Cancelled'), 0)
		FROM orders`).Scan(
		&stats.TotalOrders,
		&stats.PendingOrders,
		&stats.ConfirmedOrders,
		&stats.ShippingOrders,
		&stats.DeliveredOrders,
		&stats.CancelledOrders,
		&stats.TotalRevenue,
	)
	if err != nil {
		return Stats{}, err
	}
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(stats.TotalOrders)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT 5`)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()
	stats.RecentOrders, err = scanOrders(rows)
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getOrder(ctx context.Context, q queryer, id int64) (Order, error) {
	o, err := scanOrder(q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, shared.ErrNotFound
	}
	return o, err
}

func (r *txRepo) Get(ctx context.Context, id int64) (Order, error) {
	return getOrder(ctx, r.tx, id)
}

func (r *txRepo) Insert(ctx context.Context, order Order) (Order, error) {
	query := `INSERT INTO orders (customer_name, phone, product_id, product_name, product_image, quantity, city, address, total, status, payment_method, comment, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now()
	err := r.tx.QueryRow(ctx, query,
		order.CustomerName, order.Phone, order.ProductID, order.ProductName, order.ProductImage,
		order.Quantity, order.City, order.Address, order.Total, order.Status,
		order.PaymentMethod, order.Comment, now, now,
	).Scan(&order.ID)
	if err != nil {
		return Order{}, err
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	return order, nil
}

func (r *txRepo) Update(ctx context.Context, id int64, order Order) error {
	query := `UPDATE orders SET customer_name = $1, phone = $2, quantity = $3, city = $4, address = $5, total = $6, status = $7, comment = $8, updated_at = $9 WHERE id = $10`
	tag, err := r.tx.Exec(ctx, query,
		order.CustomerName, order.Phone, order.Quantity, order.City, order.Address,
		order.Total, order.Status, order.Comment, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *txRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

const lockedProductColumns = `id, name, price, stock, status, image`

func (r *txRepo) FindForUpdateByName(ctx context.Context, name string) (catalog.Product, error) {
	return scanLockedProduct(r.tx.QueryRow(ctx, `SELECT `+lockedProductColumns+` FROM products WHERE name = $1 FOR UPDATE`, name))
}

func (r *txRepo) FindForUpdate(ctx context.Context, id int64) (catalog.Product, error) {
	return scanLockedProduct(r.tx.QueryRow(ctx, `SELECT `+lockedProductColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
}

func (r *txRepo) SaveStock(ctx context.Context, id int64, stock int, status catalog.Status) error {
	_, err := r.tx.Exec(ctx, `UPDATE products SET stock = $1, status = $2, updated_at = NOW() WHERE id = $3`, stock, status, id)
	return err
}

func scanLockedProduct(row pgx.Row) (catalog.Product, error) {
	var p catalog.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Status, &p.Image)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, shared.ErrNotFound
	}
	return p, err
}

func scanOrders(rows pgx.Rows) ([]Order, error) {
	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerName, &o.Phone, &o.ProductID, &o.ProductName, &o.ProductImage, &o.Quantity, &o.City, &o.Address, &o.Total, &o.Status, &o.PaymentMethod, &o.Comment, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
