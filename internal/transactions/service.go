package transactions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kasira/kasira/internal/shared/apperr"
	"github.com/kasira/kasira/internal/shared/money"
)

// profitRate is the flat share of revenue booked as profit. It deliberately
// ignores the per-product cost price.
const profitRate = 0.18

// Service is the checkout workflow engine. The stock check and decrement for
// one sale run inside a single database transaction with row locks, so
// concurrent sales cannot overdraw a product.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List returns active sales, newest first, optionally limited to a range:
// "today" (since local midnight), "week" (7 days), "month" (1 month).
func (s *Service) List(ctx context.Context, rangeName string) ([]Transaction, error) {
	result, err := s.store.List(ctx, rangeSince(rangeName, time.Now()))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return result, nil
}

// ListArchived returns archived sales, most recently archived first.
func (s *Service) ListArchived(ctx context.Context) ([]Transaction, error) {
	result, err := s.store.ListArchived(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return result, nil
}

// Get fetches a sale by id regardless of archive state.
func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	t, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, apperr.NotFound("Transaksi tidak ditemukan.")
		}
		return Transaction{}, apperr.Internal(err)
	}
	return t, nil
}

// Create converts a cart into a persisted sale: shape checks first, then one
// atomic unit that locks each product row, re-checks stock, verifies the
// payment, assigns the next sequential code, writes the header and items and
// decrements stock. Any failure rolls the whole unit back.
func (s *Service) Create(ctx context.Context, form CheckoutForm) (Transaction, error) {
	if len(form.Items) == 0 {
		return Transaction{}, apperr.Validation("Item keranjang kosong atau tidak valid.")
	}
	if form.Payment == nil {
		return Transaction{}, apperr.Validation("Jumlah pembayaran wajib diisi.")
	}
	payment := *form.Payment
	if payment < 0 {
		return Transaction{}, apperr.Validation("Jumlah pembayaran tidak boleh negatif.")
	}
	for _, item := range form.Items {
		if item.ProductID == "" || item.Quantity == nil || item.Price == nil {
			return Transaction{}, apperr.Validation("Setiap item harus memiliki productId, quantity, dan price.")
		}
		if *item.Quantity <= 0 {
			return Transaction{}, apperr.Validation("Jumlah item harus lebih dari 0.")
		}
		if *item.Price < 0 {
			return Transaction{}, apperr.Validation("Harga item tidak boleh negatif.")
		}
	}

	var createdID string
	err := s.store.InTx(ctx, func(tx StoreTx) error {
		for _, item := range form.Items {
			product, err := tx.ProductForUpdate(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return apperr.NotFound("Produk dengan ID %s tidak ditemukan.", item.ProductID)
				}
				return err
			}
			if product.Stock < *item.Quantity {
				return apperr.Conflict("Stok %s tidak mencukupi. Tersedia: %d, diminta: %d.",
					product.Name, product.Stock, *item.Quantity)
			}
		}

		var totalPayment int64
		var totalItems int
		for _, item := range form.Items {
			totalPayment += int64(*item.Quantity) * *item.Price
			totalItems += *item.Quantity
		}
		if payment < totalPayment {
			return apperr.Validation("Pembayaran tidak mencukupi. Total: Rp %s, Dibayar: Rp %s.",
				money.Format(totalPayment), money.Format(payment))
		}

		number, err := tx.NextCode(ctx)
		if err != nil {
			return err
		}

		header := Transaction{
			ID:           uuid.NewString(),
			Code:         fmt.Sprintf("TRX-%04d", number),
			TotalPayment: totalPayment,
			Change:       payment - totalPayment,
			TotalItems:   totalItems,
			Profit:       int64(math.Round(float64(totalPayment) * profitRate)),
		}
		if err := tx.InsertTransaction(ctx, header); err != nil {
			return err
		}

		items := make([]Item, 0, len(form.Items))
		for _, item := range form.Items {
			items = append(items, Item{
				ID:            uuid.NewString(),
				TransactionID: header.ID,
				ProductID:     item.ProductID,
				Quantity:      *item.Quantity,
				Price:         *item.Price,
				Subtotal:      int64(*item.Quantity) * *item.Price,
			})
		}
		if err := tx.InsertItems(ctx, items); err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		createdID = header.ID
		return nil
	})
	if err != nil {
		return Transaction{}, classify(err)
	}
	return s.Get(ctx, createdID)
}

// Archive stamps the sale as deleted. Stock stays decremented: the goods left
// at sale time and archiving the record does not un-sell them.
func (s *Service) Archive(ctx context.Context, id string) (Transaction, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if t.Archived() {
		return Transaction{}, apperr.Conflict("Transaksi sudah dihapus sebelumnya.")
	}
	err = s.store.InTx(ctx, func(tx StoreTx) error {
		// The stamp is conditional on the row still being active: the unit of
		// work may be re-executed after a concurrent archive committed, and
		// the pre-check above happened outside it.
		if err := tx.Archive(ctx, id, time.Now()); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.Conflict("Transaksi sudah dihapus sebelumnya.")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return Transaction{}, classify(err)
	}
	return s.Get(ctx, id)
}

// Restore clears the archive stamp and puts each item's quantity back into
// product stock, both in one atomic unit.
func (s *Service) Restore(ctx context.Context, id string) (Transaction, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return Transaction{}, err
	}
	if !t.Archived() {
		return Transaction{}, apperr.Conflict("Transaksi tidak dalam status arsip.")
	}
	err = s.store.InTx(ctx, func(tx StoreTx) error {
		// Un-stamp first: the conditional update locks the row and misses
		// when a concurrent restore already committed, so a re-executed unit
		// of work cannot put the stock back a second time.
		if err := tx.ClearArchive(ctx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.Conflict("Transaksi tidak dalam status arsip.")
			}
			return err
		}
		for _, item := range t.Items {
			if err := tx.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Transaction{}, classify(err)
	}
	return s.Get(ctx, id)
}

// classify passes typed errors through and wraps everything else as internal.
func classify(err error) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	return apperr.Internal(err)
}

// rangeSince maps a range name to its cutoff; unknown names mean no cutoff.
func rangeSince(name string, now time.Time) *time.Time {
	var since time.Time
	switch name {
	case "today":
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, -1, 0)
	default:
		return nil
	}
	return &since
}
