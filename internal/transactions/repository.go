package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kasira/kasira/internal/platform/db"
)

// StockedProduct is the product view the checkout locks and checks.
type StockedProduct struct {
	ID    string
	Name  string
	Stock int
}

// Store defines persistence operations for sales. Mutations that must be
// atomic run inside InTx against the StoreTx surface.
type Store interface {
	List(ctx context.Context, since *time.Time) ([]Transaction, error)
	ListArchived(ctx context.Context) ([]Transaction, error)
	FindByID(ctx context.Context, id string) (Transaction, error)
	InTx(ctx context.Context, fn func(StoreTx) error) error
}

// StoreTx is the single-transaction surface: every call observes and mutates
// the same database snapshot.
type StoreTx interface {
	ProductForUpdate(ctx context.Context, id string) (StockedProduct, error)
	DecrementStock(ctx context.Context, id string, quantity int) error
	IncrementStock(ctx context.Context, id string, quantity int) error
	NextCode(ctx context.Context) (int, error)
	InsertTransaction(ctx context.Context, t Transaction) error
	InsertItems(ctx context.Context, items []Item) error
	Archive(ctx context.Context, id string, at time.Time) error
	ClearArchive(ctx context.Context, id string) error
}

type store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL store.
func NewStore(pool *pgxpool.Pool) Store {
	return &store{pool: pool}
}

const txColumns = `id, code, total_payment, change, total_items, profit, deleted_at, created_at`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.Code, &t.TotalPayment, &t.Change, &t.TotalItems, &t.Profit, &t.DeletedAt, &t.CreatedAt)
	return t, err
}

func (s *store) queryMany(ctx context.Context, query string, args ...any) ([]Transaction, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("transactions: query: %w", err)
	}
	defer rows.Close()

	result := make([]Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("transactions: scan: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, s.attachItems(ctx, result)
}

// attachItems loads the line items with product detail for every listed
// transaction in one query.
func (s *store) attachItems(ctx context.Context, list []Transaction) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	index := make(map[string]int, len(list))
	for i, t := range list {
		ids[i] = t.ID
		index[t.ID] = i
	}

	rows, err := s.pool.Query(ctx,
		`SELECT i.id, i.transaction_id, i.product_id, i.quantity, i.price, i.subtotal,
		        p.id, p.sku, p.name, p.price, p.stock
		 FROM transaction_items i
		 JOIN products p ON p.id = i.product_id
		 WHERE i.transaction_id = ANY($1)
		 ORDER BY i.id`, ids)
	if err != nil {
		return fmt.Errorf("transactions: items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item    Item
			product ItemProduct
		)
		err := rows.Scan(&item.ID, &item.TransactionID, &item.ProductID, &item.Quantity, &item.Price, &item.Subtotal,
			&product.ID, &product.SKU, &product.Name, &product.Price, &product.Stock)
		if err != nil {
			return fmt.Errorf("transactions: scan item: %w", err)
		}
		item.Product = &product
		i := index[item.TransactionID]
		list[i].Items = append(list[i].Items, item)
	}
	return rows.Err()
}

func (s *store) List(ctx context.Context, since *time.Time) ([]Transaction, error) {
	if since != nil {
		return s.queryMany(ctx,
			`SELECT `+txColumns+` FROM transactions
			 WHERE deleted_at IS NULL AND created_at >= $1
			 ORDER BY created_at DESC`, *since)
	}
	return s.queryMany(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE deleted_at IS NULL ORDER BY created_at DESC`)
}

func (s *store) ListArchived(ctx context.Context) ([]Transaction, error) {
	return s.queryMany(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE deleted_at IS NOT NULL ORDER BY deleted_at DESC`)
}

func (s *store) FindByID(ctx context.Context, id string) (Transaction, error) {
	t, err := scanTransaction(s.pool.QueryRow(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		return Transaction{}, err
	}
	list := []Transaction{t}
	if err := s.attachItems(ctx, list); err != nil {
		return Transaction{}, err
	}
	return list[0], nil
}

func (s *store) InTx(ctx context.Context, fn func(StoreTx) error) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&storeTx{tx: tx})
	})
}

type storeTx struct {
	tx pgx.Tx
}

func (s *storeTx) ProductForUpdate(ctx context.Context, id string) (StockedProduct, error) {
	var p StockedProduct
	err := s.tx.QueryRow(ctx,
		`SELECT id, name, stock FROM products WHERE id = $1 FOR UPDATE`, id,
	).Scan(&p.ID, &p.Name, &p.Stock)
	return p, err
}

func (s *storeTx) DecrementStock(ctx context.Context, id string, quantity int) error {
	_, err := s.tx.Exec(ctx,
		`UPDATE products SET stock = stock - $1 WHERE id = $2`, quantity, id)
	return err
}

func (s *storeTx) IncrementStock(ctx context.Context, id string, quantity int) error {
	_, err := s.tx.Exec(ctx,
		`UPDATE products SET stock = stock + $1 WHERE id = $2`, quantity, id)
	return err
}

// NextCode advances the persistent sale-code sequence. The seed row makes the
// first sale come out as 1001.
func (s *storeTx) NextCode(ctx context.Context) (int, error) {
	var value int
	err := s.tx.QueryRow(ctx,
		`INSERT INTO counters (name, value) VALUES ('transaction_code', 1001)
		 ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		 RETURNING value`,
	).Scan(&value)
	return value, err
}

func (s *storeTx) InsertTransaction(ctx context.Context, t Transaction) error {
	_, err := s.tx.Exec(ctx,
		`INSERT INTO transactions (id, code, total_payment, change, total_items, profit, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Code, t.TotalPayment, t.Change, t.TotalItems, t.Profit, time.Now())
	return err
}

func (s *storeTx) InsertItems(ctx context.Context, items []Item) error {
	for _, item := range items {
		_, err := s.tx.Exec(ctx,
			`INSERT INTO transaction_items (id, transaction_id, product_id, quantity, price, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.TransactionID, item.ProductID, item.Quantity, item.Price, item.Subtotal)
		if err != nil {
			return err
		}
	}
	return nil
}

// Archive stamps the sale only when it is still active. The transaction
// helper may re-execute the unit of work, so the state check has to live in
// the statement itself; a miss surfaces as pgx.ErrNoRows.
func (s *storeTx) Archive(ctx context.Context, id string, at time.Time) error {
	tag, err := s.tx.Exec(ctx,
		`UPDATE transactions SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`, at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ClearArchive un-stamps the sale only when it is currently archived, with
// the same rows-affected guard as Archive.
func (s *storeTx) ClearArchive(ctx context.Context, id string) error {
	tag, err := s.tx.Exec(ctx,
		`UPDATE transactions SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
