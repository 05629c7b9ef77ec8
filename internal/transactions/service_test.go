package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/kasira/kasira/internal/shared/apperr"
)

// mockStore keeps products and sales in memory and gives InTx snapshot
// semantics: when the unit of work fails, every mutation is rolled back.
type mockStore struct {
	products map[string]*StockedProduct
	headers  map[string]Transaction
	items    map[string][]Item
	counter  int
}

func newMockStore() *mockStore {
	return &mockStore{
		products: make(map[string]*StockedProduct),
		headers:  make(map[string]Transaction),
		items:    make(map[string][]Item),
	}
}

func (m *mockStore) addProduct(id, name string, stock int) {
	m.products[id] = &StockedProduct{ID: id, Name: name, Stock: stock}
}

func (m *mockStore) stock(id string) int {
	return m.products[id].Stock
}

func (m *mockStore) withItems(t Transaction) Transaction {
	items := make([]Item, len(m.items[t.ID]))
	copy(items, m.items[t.ID])
	for i := range items {
		p := m.products[items[i].ProductID]
		items[i].Product = &ItemProduct{ID: p.ID, Name: p.Name, Stock: p.Stock}
	}
	t.Items = items
	return t
}

func (m *mockStore) List(ctx context.Context, since *time.Time) ([]Transaction, error) {
	var result []Transaction
	for _, t := range m.headers {
		if t.DeletedAt != nil {
			continue
		}
		if since != nil && t.CreatedAt.Before(*since) {
			continue
		}
		result = append(result, m.withItems(t))
	}
	return result, nil
}

func (m *mockStore) ListArchived(ctx context.Context) ([]Transaction, error) {
	var result []Transaction
	for _, t := range m.headers {
		if t.DeletedAt != nil {
			result = append(result, m.withItems(t))
		}
	}
	return result, nil
}

func (m *mockStore) FindByID(ctx context.Context, id string) (Transaction, error) {
	t, ok := m.headers[id]
	if !ok {
		return Transaction{}, pgx.ErrNoRows
	}
	return m.withItems(t), nil
}

func (m *mockStore) InTx(ctx context.Context, fn func(StoreTx) error) error {
	snapshot := m.clone()
	if err := fn(&mockTx{store: m}); err != nil {
		*m = *snapshot
		return err
	}
	return nil
}

func (m *mockStore) clone() *mockStore {
	c := newMockStore()
	c.counter = m.counter
	for id, p := range m.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, t := range m.headers {
		c.headers[id] = t
	}
	for id, list := range m.items {
		items := make([]Item, len(list))
		copy(items, list)
		c.items[id] = items
	}
	return c
}

type mockTx struct {
	store *mockStore
}

func (t *mockTx) ProductForUpdate(ctx context.Context, id string) (StockedProduct, error) {
	p, ok := t.store.products[id]
	if !ok {
		return StockedProduct{}, pgx.ErrNoRows
	}
	return *p, nil
}

func (t *mockTx) DecrementStock(ctx context.Context, id string, quantity int) error {
	t.store.products[id].Stock -= quantity
	return nil
}

func (t *mockTx) IncrementStock(ctx context.Context, id string, quantity int) error {
	t.store.products[id].Stock += quantity
	return nil
}

func (t *mockTx) NextCode(ctx context.Context) (int, error) {
	if t.store.counter == 0 {
		t.store.counter = 1001
	} else {
		t.store.counter++
	}
	return t.store.counter, nil
}

func (t *mockTx) InsertTransaction(ctx context.Context, tr Transaction) error {
	tr.CreatedAt = time.Now()
	t.store.headers[tr.ID] = tr
	return nil
}

func (t *mockTx) InsertItems(ctx context.Context, items []Item) error {
	for _, item := range items {
		t.store.items[item.TransactionID] = append(t.store.items[item.TransactionID], item)
	}
	return nil
}

func (t *mockTx) Archive(ctx context.Context, id string, at time.Time) error {
	tr, ok := t.store.headers[id]
	if !ok || tr.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	tr.DeletedAt = &at
	t.store.headers[id] = tr
	return nil
}

func (t *mockTx) ClearArchive(ctx context.Context, id string) error {
	tr, ok := t.store.headers[id]
	if !ok || tr.DeletedAt == nil {
		return pgx.ErrNoRows
	}
	tr.DeletedAt = nil
	t.store.headers[id] = tr
	return nil
}

// retryStore mimics the transaction helper's serialization-failure handling:
// the first unit of work runs and rolls back, an interleaved writer commits,
// then the same unit of work runs again against the new state.
type retryStore struct {
	*mockStore
	interleave func()
}

func (r *retryStore) InTx(ctx context.Context, fn func(StoreTx) error) error {
	if r.interleave != nil {
		snapshot := r.mockStore.clone()
		_ = fn(&mockTx{store: r.mockStore})
		*r.mockStore = *snapshot
		r.interleave()
		r.interleave = nil
	}
	return r.mockStore.InTx(ctx, fn)
}

func qty(v int) *int { return &v }

func amount(v int64) *int64 { return &v }

func cart(productID string, quantity int, price int64) CheckoutForm {
	return CheckoutForm{
		Items:   []CartItem{{ProductID: productID, Quantity: qty(quantity), Price: amount(price)}},
		Payment: amount(0),
	}
}

func TestCheckoutComputesTotals(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi Botol", 10)
	svc := NewService(store)

	form := cart("p1", 3, 1000)
	form.Payment = amount(5000)

	tr, err := svc.Create(context.Background(), form)
	require.NoError(t, err)
	require.Equal(t, "TRX-1001", tr.Code)
	require.Equal(t, int64(3000), tr.TotalPayment)
	require.Equal(t, int64(2000), tr.Change)
	require.Equal(t, 3, tr.TotalItems)
	require.Equal(t, int64(540), tr.Profit)
	require.Len(t, tr.Items, 1)
	require.Equal(t, int64(3000), tr.Items[0].Subtotal)
	require.Equal(t, "Kopi Botol", tr.Items[0].Product.Name)
	require.Equal(t, 7, store.stock("p1"))
}

func TestCheckoutSequentialCodes(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi", 100)
	svc := NewService(store)
	ctx := context.Background()

	form := cart("p1", 1, 1000)
	form.Payment = amount(1000)

	first, err := svc.Create(ctx, form)
	require.NoError(t, err)
	second, err := svc.Create(ctx, form)
	require.NoError(t, err)

	require.Equal(t, "TRX-1001", first.Code)
	require.Equal(t, "TRX-1002", second.Code)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi Botol", 10)
	svc := NewService(store)

	form := cart("p1", 15, 1000)
	form.Payment = amount(20000)

	_, err := svc.Create(context.Background(), form)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "Stok Kopi Botol tidak mencukupi. Tersedia: 10, diminta: 15.", apperr.MessageOf(err))
	require.Equal(t, 10, store.stock("p1"))
	require.Empty(t, store.headers)
}

func TestCheckoutInsufficientPayment(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi Botol", 10)
	svc := NewService(store)

	form := cart("p1", 1, 3000)
	form.Payment = amount(2000)

	_, err := svc.Create(context.Background(), form)
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Equal(t, "Pembayaran tidak mencukupi. Total: Rp 3.000, Dibayar: Rp 2.000.", apperr.MessageOf(err))
	require.Equal(t, 10, store.stock("p1"))
	require.Empty(t, store.headers)
}

func TestCheckoutFailureLeavesAllStocksIntact(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi", 10)
	store.addProduct("p2", "Teh", 2)
	svc := NewService(store)

	form := CheckoutForm{
		Items: []CartItem{
			{ProductID: "p1", Quantity: qty(5), Price: amount(1000)},
			{ProductID: "p2", Quantity: qty(5), Price: amount(500)},
		},
		Payment: amount(100000),
	}

	_, err := svc.Create(context.Background(), form)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, 10, store.stock("p1"))
	require.Equal(t, 2, store.stock("p2"))
	require.Empty(t, store.headers)
}

func TestCheckoutUnknownProduct(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)

	form := cart("ghost", 1, 1000)
	form.Payment = amount(1000)

	_, err := svc.Create(context.Background(), form)
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	require.Equal(t, "Produk dengan ID ghost tidak ditemukan.", apperr.MessageOf(err))
}

func TestCheckoutShapeValidation(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi", 10)
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, CheckoutForm{Payment: amount(1000)})
	require.Equal(t, "Item keranjang kosong atau tidak valid.", apperr.MessageOf(err))

	_, err = svc.Create(ctx, CheckoutForm{
		Items: []CartItem{{ProductID: "p1", Quantity: qty(1), Price: amount(1000)}},
	})
	require.Equal(t, "Jumlah pembayaran wajib diisi.", apperr.MessageOf(err))

	form := cart("p1", 1, 1000)
	form.Payment = amount(-1)
	_, err = svc.Create(ctx, form)
	require.Equal(t, "Jumlah pembayaran tidak boleh negatif.", apperr.MessageOf(err))

	_, err = svc.Create(ctx, CheckoutForm{
		Items:   []CartItem{{ProductID: "p1", Price: amount(1000)}},
		Payment: amount(1000),
	})
	require.Equal(t, "Setiap item harus memiliki productId, quantity, dan price.", apperr.MessageOf(err))

	form = cart("p1", 0, 1000)
	form.Payment = amount(1000)
	_, err = svc.Create(ctx, form)
	require.Equal(t, "Jumlah item harus lebih dari 0.", apperr.MessageOf(err))

	form = cart("p1", 1, -5)
	form.Payment = amount(1000)
	_, err = svc.Create(ctx, form)
	require.Equal(t, "Harga item tidak boleh negatif.", apperr.MessageOf(err))
}

func TestArchiveKeepsStockDecremented(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi", 10)
	svc := NewService(store)
	ctx := context.Background()

	form := cart("p1", 3, 1000)
	form.Payment = amount(3000)
	tr, err := svc.Create(ctx, form)
	require.NoError(t, err)
	require.Equal(t, 7, store.stock("p1"))

	archived, err := svc.Archive(ctx, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, archived.DeletedAt)
	require.Equal(t, 7, store.stock("p1"))

	_, err = svc.Archive(ctx, tr.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "Transaksi sudah dihapus sebelumnya.", apperr.MessageOf(err))
}

func TestRestorePutsStockBack(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi", 10)
	svc := NewService(store)
	ctx := context.Background()

	form := cart("p1", 3, 1000)
	form.Payment = amount(3000)
	tr, err := svc.Create(ctx, form)
	require.NoError(t, err)

	_, err = svc.Archive(ctx, tr.ID)
	require.NoError(t, err)

	restored, err := svc.Restore(ctx, tr.ID)
	require.NoError(t, err)
	require.Nil(t, restored.DeletedAt)
	require.Equal(t, 10, store.stock("p1"))

	_, err = svc.Restore(ctx, tr.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "Transaksi tidak dalam status arsip.", apperr.MessageOf(err))
	require.Equal(t, 10, store.stock("p1"))
}

func TestRestoreRetryAfterConcurrentRestore(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi", 10)
	setup := NewService(store)
	ctx := context.Background()

	form := cart("p1", 3, 1000)
	form.Payment = amount(3000)
	tr, err := setup.Create(ctx, form)
	require.NoError(t, err)
	_, err = setup.Archive(ctx, tr.ID)
	require.NoError(t, err)
	require.Equal(t, 7, store.stock("p1"))

	// Another restore of the same sale commits while the first attempt rolls
	// back. The re-executed unit of work must not add the stock again.
	retry := &retryStore{mockStore: store, interleave: func() {
		_, err := setup.Restore(ctx, tr.ID)
		require.NoError(t, err)
	}}
	svc := NewService(retry)

	_, err = svc.Restore(ctx, tr.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "Transaksi tidak dalam status arsip.", apperr.MessageOf(err))
	require.Equal(t, 10, store.stock("p1"))
}

func TestArchiveRetryAfterConcurrentArchive(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi", 10)
	setup := NewService(store)
	ctx := context.Background()

	form := cart("p1", 3, 1000)
	form.Payment = amount(3000)
	tr, err := setup.Create(ctx, form)
	require.NoError(t, err)
	require.Equal(t, 7, store.stock("p1"))

	retry := &retryStore{mockStore: store, interleave: func() {
		_, err := setup.Archive(ctx, tr.ID)
		require.NoError(t, err)
	}}
	svc := NewService(retry)

	_, err = svc.Archive(ctx, tr.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "Transaksi sudah dihapus sebelumnya.", apperr.MessageOf(err))
	require.Equal(t, 7, store.stock("p1"))
}

func TestCheckoutRetryCommitsOnce(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi", 10)
	retry := &retryStore{mockStore: store, interleave: func() {}}
	svc := NewService(retry)
	ctx := context.Background()

	form := cart("p1", 3, 1000)
	form.Payment = amount(3000)

	tr, err := svc.Create(ctx, form)
	require.NoError(t, err)
	require.Equal(t, "TRX-1001", tr.Code)
	require.Equal(t, 7, store.stock("p1"))
	require.Len(t, store.headers, 1)
}

func TestArchivedSalesLeaveHistory(t *testing.T) {
	store := newMockStore()
	store.addProduct("p1", "Kopi", 10)
	svc := NewService(store)
	ctx := context.Background()

	form := cart("p1", 1, 1000)
	form.Payment = amount(1000)
	tr, err := svc.Create(ctx, form)
	require.NoError(t, err)

	_, err = svc.Archive(ctx, tr.ID)
	require.NoError(t, err)

	active, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Empty(t, active)

	archived, err := svc.ListArchived(ctx)
	require.NoError(t, err)
	require.Len(t, archived, 1)

	// detail lookup still works for archived rows
	got, err := svc.Get(ctx, tr.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)
}

func TestRangeSince(t *testing.T) {
	now := time.Date(2026, time.August, 31, 15, 30, 0, 0, time.Local)

	since := rangeSince("today", now)
	require.NotNil(t, since)
	require.Equal(t, time.Date(2026, time.August, 31, 0, 0, 0, 0, time.Local), *since)

	since = rangeSince("week", now)
	require.NotNil(t, since)
	require.Equal(t, now.AddDate(0, 0, -7), *since)

	since = rangeSince("month", now)
	require.NotNil(t, since)
	require.Equal(t, now.AddDate(0, -1, 0), *since)

	require.Nil(t, rangeSince("", now))
	require.Nil(t, rangeSince("year", now))
}
