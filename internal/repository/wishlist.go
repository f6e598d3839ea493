package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voltkart/storefront-api/internal/model"
)

type WishlistRepository interface {
	// Add inserts the (user, product) pair. Returns false when the pair
	// already exists; the unique constraint is the conflict signal.
	Add(ctx context.Context, userID, productID int64) (bool, error)
	Remove(ctx context.Context, userID, productID int64) (bool, error)
	Products(ctx context.Context, userID int64) ([]model.Product, error)
	Contains(ctx context.Context, userID, productID int64) (bool, error)
}

type pgWishlistRepo struct{ pool *pgxpool.Pool }

func NewWishlistRepository(pool *pgxpool.Pool) WishlistRepository {
	return &pgWishlistRepo{pool: pool}
}

func (r *pgWishlistRepo) Add(ctx context.Context, userID, productID int64) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`INSERT INTO wishlist (user_id, product_entry_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, product_entry_id) DO NOTHING`,
		userID, productID,
	)
	if err != nil {
		return false, fmt.Errorf("add wishlist entry: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgWishlistRepo) Remove(ctx context.Context, userID, productID int64) (bool, error) {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM wishlist WHERE user_id = $1 AND product_entry_id = $2`,
		userID, productID,
	)
	if err != nil {
		return false, fmt.Errorf("remove wishlist entry: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgWishlistRepo) Products(ctx context.Context, userID int64) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.name, p.category, p.brand, p.color_name, p.actual_price,
		        p.strike_price, p.trending_score, p.views_count, p.ratings,
		        p.reviews, p.description, p.in_box_content,
		        p.product_specifications, p.offers, p.stocks, p.product_color_img
		 FROM allproducts p
		 JOIN wishlist w ON w.product_entry_id = p.id
		 WHERE w.user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("wishlist products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *pgWishlistRepo) Contains(ctx context.Context, userID, productID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlist WHERE user_id = $1 AND product_entry_id = $2)`,
		userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check wishlist entry: %w", err)
	}
	return exists, nil
}
