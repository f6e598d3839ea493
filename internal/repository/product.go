package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voltkart/storefront-api/internal/model"
)

const productColumns = `id, name, category, brand, color_name, actual_price, strike_price,
	trending_score, views_count, ratings, reviews, description, in_box_content,
	product_specifications, offers, stocks, product_color_img`

type ProductRepository interface {
	Popular(ctx context.Context, category string) ([]model.Product, error)
	ByCategory(ctx context.Context, category string) ([]model.Product, error)
	WeeklyDeals(ctx context.Context) ([]model.Product, error)
	Search(ctx context.Context, normalized string) ([]model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	VariantsByName(ctx context.Context, name string) ([]model.Product, error)
	Similar(ctx context.Context, category string, excludeID int64) ([]model.Product, error)
	CategoryExists(ctx context.Context, normalized string) (bool, error)
	FacetsByCategory(ctx context.Context, normalized string) ([]model.FacetRow, error)
	FacetsByName(ctx context.Context, term string) ([]model.FacetRow, error)
	CategoryForName(ctx context.Context, term string) (string, error)
	DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

func (r *pgProductRepo) Popular(ctx context.Context, category string) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM allproducts WHERE trending_score > 75`
	args := []any{}
	if category != "" && category != "All" {
		query += ` AND LOWER(REPLACE(category, ' ', '')) = LOWER(REPLACE($1, ' ', ''))`
		args = append(args, category)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("popular products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *pgProductRepo) ByCategory(ctx context.Context, category string) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM allproducts
		 WHERE LOWER(REPLACE(category, ' ', '')) = LOWER(REPLACE($1, ' ', ''))`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("category products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *pgProductRepo) WeeklyDeals(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM allproducts WHERE views_count > 15000`,
	)
	if err != nil {
		return nil, fmt.Errorf("weekly deals: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Search matches the normalized term as a substring of the normalized name
// or category. The caller supplies the term already lowercased and stripped
// of spaces, without LIKE wildcards.
func (r *pgProductRepo) Search(ctx context.Context, normalized string) ([]model.Product, error) {
	pattern := "%" + normalized + "%"
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM allproducts
		 WHERE REPLACE(LOWER(name), ' ', '') LIKE $1
		    OR REPLACE(LOWER(category), ' ', '') LIKE $1`,
		pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *pgProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM allproducts WHERE id = $1`, id,
	)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) VariantsByName(ctx context.Context, name string) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM allproducts WHERE name = $1`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("product variants: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *pgProductRepo) Similar(ctx context.Context, category string, excludeID int64) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM allproducts WHERE category = $1 AND id != $2 LIMIT 8`,
		category, excludeID,
	)
	if err != nil {
		return nil, fmt.Errorf("similar products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *pgProductRepo) CategoryExists(ctx context.Context, normalized string) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM allproducts WHERE LOWER(REPLACE(category, ' ', '')) = $1`,
		normalized,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return count > 0, nil
}

func (r *pgProductRepo) FacetsByCategory(ctx context.Context, normalized string) ([]model.FacetRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT brand, ratings, actual_price FROM allproducts
		 WHERE LOWER(REPLACE(category, ' ', '')) = $1`,
		normalized,
	)
	if err != nil {
		return nil, fmt.Errorf("facets by category: %w", err)
	}
	defer rows.Close()
	return scanFacetRows(rows)
}

func (r *pgProductRepo) FacetsByName(ctx context.Context, term string) ([]model.FacetRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT brand, ratings, actual_price FROM allproducts WHERE LOWER(name) LIKE $1`,
		"%"+term+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("facets by name: %w", err)
	}
	defer rows.Close()
	return scanFacetRows(rows)
}

// CategoryForName resolves a free-text term to the category of the first
// product whose name matches. Returns "" when nothing matches.
func (r *pgProductRepo) CategoryForName(ctx context.Context, term string) (string, error) {
	var category string
	err := r.pool.QueryRow(ctx,
		`SELECT category FROM allproducts WHERE LOWER(name) LIKE LOWER($1) LIMIT 1`,
		"%"+term+"%",
	).Scan(&category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("category for name: %w", err)
	}
	return category, nil
}

func (r *pgProductRepo) DecrementStock(ctx context.Context, tx pgx.Tx, productID int64, quantity int) error {
	ct, err := tx.Exec(ctx,
		`UPDATE allproducts SET stocks = stocks - $2 WHERE id = $1 AND stocks >= $2`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("insufficient stock for product %d", productID)
	}
	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	var specs, offers []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Brand, &p.ColorName,
		&p.ActualPrice, &p.StrikePrice, &p.TrendingScore, &p.ViewsCount,
		&p.Ratings, &p.Reviews, &p.Description, &p.InBoxContent,
		&specs, &offers, &p.Stocks, &p.ColorImage,
	)
	if err != nil {
		return nil, err
	}
	p.Specifications = model.DecodeSpecs(specs)
	p.Offers = model.DecodeOffers(offers)
	return p, nil
}

func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func scanFacetRows(rows pgx.Rows) ([]model.FacetRow, error) {
	var facets []model.FacetRow
	for rows.Next() {
		var f model.FacetRow
		if err := rows.Scan(&f.Brand, &f.Ratings, &f.ActualPrice); err != nil {
			return nil, fmt.Errorf("scan facet row: %w", err)
		}
		facets = append(facets, f)
	}
	return facets, rows.Err()
}
