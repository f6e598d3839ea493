package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voltkart/storefront-api/internal/model"
)

type OrderRepository interface {
	Insert(ctx context.Context, order *model.Order) error
	InsertBatch(ctx context.Context, orders []*model.Order) error
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

const orderInsert = `INSERT INTO orders
	(user_id, product_id, order_id, quantity, price, final_price, address,
	 color_name, product_color_img, name)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, created_at`

func (r *pgOrderRepo) Insert(ctx context.Context, order *model.Order) error {
	err := r.pool.QueryRow(ctx, orderInsert,
		order.UserID, order.ProductID, order.OrderCode, order.Quantity,
		order.Price, order.FinalPrice, order.Address,
		order.ColorName, order.ColorImage, order.Name,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// InsertBatch persists all rows in one transaction: either every line item
// commits or none do.
func (r *pgOrderRepo) InsertBatch(ctx context.Context, orders []*model.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, order := range orders {
		err := tx.QueryRow(ctx, orderInsert,
			order.UserID, order.ProductID, order.OrderCode, order.Quantity,
			order.Price, order.FinalPrice, order.Address,
			order.ColorName, order.ColorImage, order.Name,
		).Scan(&order.ID, &order.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order row: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *pgOrderRepo) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, user_id, product_id, quantity, price, final_price,
		        COALESCE(address, ''), COALESCE(color_name, ''),
		        COALESCE(product_color_img, ''), COALESCE(name, ''), created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(
			&o.ID, &o.OrderCode, &o.UserID, &o.ProductID, &o.Quantity,
			&o.Price, &o.FinalPrice, &o.Address,
			&o.ColorName, &o.ColorImage, &o.Name, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *pgOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}
