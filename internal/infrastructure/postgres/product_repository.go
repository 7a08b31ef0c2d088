// Package postgres implements product persistence on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prodcat/backend/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id          BIGSERIAL PRIMARY KEY,
	name        VARCHAR(150) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price       DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products (name);
`

// ProductRepository implements domain.ProductRepository on a pgx connection
// pool. The pool is safe for concurrent single-row creates from multiple
// simultaneous imports.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a repository on the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// InitSchema creates the products table if it does not exist.
func (r *ProductRepository) InitSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("initializing products schema: %w", err)
	}
	return nil
}

// Create inserts one product and returns the stored row.
func (r *ProductRepository) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (name, description, price)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, price, created_at
	`, input.Name, input.Description, input.Price)

	return scanProduct(row)
}

// GetByID returns the product with the given id, or
// domain.ErrProductNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, price, created_at
		FROM products
		WHERE id = $1
	`, id)

	return scanProduct(row)
}

// List returns products ordered by id with skip/limit pagination.
func (r *ProductRepository) List(ctx context.Context, skip, limit int) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price, created_at
		FROM products
		ORDER BY id
		OFFSET $1 LIMIT $2
	`, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// Update applies the non-nil fields of patch and returns the updated row.
func (r *ProductRepository) Update(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE products SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			price       = COALESCE($4, price)
		WHERE id = $1
		RETURNING id, name, description, price, created_at
	`, id, patch.Name, patch.Description, patch.Price)

	return scanProduct(row)
}

// Delete removes the product with the given id, or returns
// domain.ErrProductNotFound if no row matched.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	return &p, nil
}
