package products

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kasira/kasira/internal/platform/db"
)

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	ListArchived(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (Product, error)
	FindActiveByName(ctx context.Context, name, excludeID string) (Product, error)
	FindActiveBySKU(ctx context.Context, sku, excludeID string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) (Product, error)
	Archive(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string) error
	NextSKUNumber(ctx context.Context) (int, error)
	RegenerateSKUs(ctx context.Context) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const selectProduct = `
	SELECT p.id, p.sku, p.name, p.category_id, p.unit_id, p.type,
	       p.cost_price, p.price, p.stock, p.deleted_at, p.created_at,
	       c.id, c.name, u.id, u.name
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN units u ON u.id = p.unit_id`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p                Product
		catID, catName   *string
		unitID, unitName *string
	)
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.CategoryID, &p.UnitID, &p.Type,
		&p.CostPrice, &p.Price, &p.Stock, &p.DeletedAt, &p.CreatedAt,
		&catID, &catName, &unitID, &unitName)
	if err != nil {
		return Product{}, err
	}
	if catID != nil {
		p.Category = &Reference{ID: *catID, Name: *catName}
	}
	if unitID != nil {
		p.Unit = &Reference{ID: *unitID, Name: *unitName}
	}
	return p, nil
}

func (r *repository) queryMany(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("products: query: %w", err)
	}
	defer rows.Close()

	result := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("products: scan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	return r.queryMany(ctx, selectProduct+` WHERE p.deleted_at IS NULL ORDER BY p.created_at DESC`)
}

func (r *repository) ListArchived(ctx context.Context) ([]Product, error) {
	return r.queryMany(ctx, selectProduct+` WHERE p.deleted_at IS NOT NULL ORDER BY p.deleted_at DESC`)
}

func (r *repository) FindByID(ctx context.Context, id string) (Product, error) {
	return scanProduct(r.pool.QueryRow(ctx, selectProduct+` WHERE p.id = $1`, id))
}

func (r *repository) FindActiveByName(ctx context.Context, name, excludeID string) (Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		selectProduct+` WHERE LOWER(p.name) = LOWER($1) AND p.deleted_at IS NULL AND p.id <> $2`,
		name, excludeID))
}

func (r *repository) FindActiveBySKU(ctx context.Context, sku, excludeID string) (Product, error) {
	return scanProduct(r.pool.QueryRow(ctx,
		selectProduct+` WHERE p.sku = $1 AND p.deleted_at IS NULL AND p.id <> $2`,
		sku, excludeID))
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, sku, name, category_id, unit_id, type, cost_price, price, stock, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		product.ID, product.SKU, product.Name, product.CategoryID, product.UnitID,
		product.Type, product.CostPrice, product.Price, product.Stock, time.Now())
	if err != nil {
		return Product{}, err
	}
	return r.FindByID(ctx, product.ID)
}

func (r *repository) Update(ctx context.Context, product Product) (Product, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET sku = $1, name = $2, category_id = $3, unit_id = $4,
		        type = $5, cost_price = $6, price = $7, stock = $8
		 WHERE id = $9`,
		product.SKU, product.Name, product.CategoryID, product.UnitID,
		product.Type, product.CostPrice, product.Price, product.Stock, product.ID)
	if err != nil {
		return Product{}, err
	}
	if tag.RowsAffected() == 0 {
		return Product{}, pgx.ErrNoRows
	}
	return r.FindByID(ctx, product.ID)
}

func (r *repository) Archive(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE products SET deleted_at = $1 WHERE id = $2`, at, id)
	return err
}

func (r *repository) Restore(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE products SET deleted_at = NULL WHERE id = $1`, id)
	return err
}

// NextSKUNumber previews the next sequential SKU number: one past the highest
// PRD-formatted SKU, or one past the product count when that is higher.
func (r *repository) NextSKUNumber(ctx context.Context) (int, error) {
	var maxNumber, total int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX((substring(sku from '^PRD(\d+)$'))::int), 0) FROM products WHERE sku ~ '^PRD\d+$'`,
	).Scan(&maxNumber)
	if err != nil {
		return 0, fmt.Errorf("products: max sku: %w", err)
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("products: count: %w", err)
	}
	next := maxNumber + 1
	if total+1 > next {
		next = total + 1
	}
	return next, nil
}

// RegenerateSKUs renumbers every product sequentially by creation date inside
// one transaction and returns how many were updated.
func (r *repository) RegenerateSKUs(ctx context.Context) (int, error) {
	count := 0
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT id FROM products ORDER BY created_at ASC`)
		if err != nil {
			return err
		}
		var ids []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		count = len(ids)
		if count == 0 {
			return nil
		}

		// The unique index on active SKUs is enforced per statement, so a
		// final SKU that another row still holds would abort the renumbering.
		// Park every row on a placeholder keyed by its id first.
		if _, err := tx.Exec(ctx, `UPDATE products SET sku = 'TMP-' || id`); err != nil {
			return err
		}
		for i, id := range ids {
			sku := fmt.Sprintf("PRD%04d", i+1)
			if _, err := tx.Exec(ctx, `UPDATE products SET sku = $1 WHERE id = $2`, sku, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("products: regenerate skus: %w", err)
	}
	return count, nil
}
