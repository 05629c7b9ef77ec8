package products

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/kasira/kasira/internal/shared/apperr"
	"github.com/kasira/kasira/internal/validate"
)

type mockRepository struct {
	order    []string
	products map[string]Product
}

func newMockRepository() *mockRepository {
	return &mockRepository{products: make(map[string]Product)}
}

func (m *mockRepository) List(ctx context.Context) ([]Product, error) {
	var result []Product
	for i := len(m.order) - 1; i >= 0; i-- {
		p := m.products[m.order[i]]
		if p.DeletedAt == nil {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockRepository) ListArchived(ctx context.Context) ([]Product, error) {
	var result []Product
	for _, id := range m.order {
		p := m.products[id]
		if p.DeletedAt != nil {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (Product, error) {
	p, ok := m.products[id]
	if !ok {
		return Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockRepository) FindActiveByName(ctx context.Context, name, excludeID string) (Product, error) {
	for _, p := range m.products {
		if p.DeletedAt == nil && p.ID != excludeID && strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Product{}, pgx.ErrNoRows
}

func (m *mockRepository) FindActiveBySKU(ctx context.Context, sku, excludeID string) (Product, error) {
	for _, p := range m.products {
		if p.DeletedAt == nil && p.ID != excludeID && p.SKU == sku {
			return p, nil
		}
	}
	return Product{}, pgx.ErrNoRows
}

func (m *mockRepository) Create(ctx context.Context, product Product) (Product, error) {
	product.CreatedAt = time.Now()
	m.products[product.ID] = product
	m.order = append(m.order, product.ID)
	return product, nil
}

func (m *mockRepository) Update(ctx context.Context, product Product) (Product, error) {
	stored, ok := m.products[product.ID]
	if !ok {
		return Product{}, pgx.ErrNoRows
	}
	product.CreatedAt = stored.CreatedAt
	product.DeletedAt = stored.DeletedAt
	m.products[product.ID] = product
	return product, nil
}

func (m *mockRepository) Archive(ctx context.Context, id string, at time.Time) error {
	p := m.products[id]
	p.DeletedAt = &at
	m.products[id] = p
	return nil
}

func (m *mockRepository) Restore(ctx context.Context, id string) error {
	p := m.products[id]
	p.DeletedAt = nil
	m.products[id] = p
	return nil
}

func (m *mockRepository) NextSKUNumber(ctx context.Context) (int, error) {
	maxNumber := 0
	for _, p := range m.products {
		if !strings.HasPrefix(p.SKU, "PRD") {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(p.SKU, "PRD")); err == nil && n > maxNumber {
			maxNumber = n
		}
	}
	next := maxNumber + 1
	if len(m.products)+1 > next {
		next = len(m.products) + 1
	}
	return next, nil
}

// RegenerateSKUs mirrors the repository's two-pass renumbering, including the
// per-assignment uniqueness check the database index enforces on active rows.
func (m *mockRepository) RegenerateSKUs(ctx context.Context) (int, error) {
	assign := func(id, sku string) error {
		for otherID, other := range m.products {
			if otherID != id && other.DeletedAt == nil && other.SKU == sku {
				return fmt.Errorf("products: regenerate skus: duplicate %s", sku)
			}
		}
		p := m.products[id]
		p.SKU = sku
		m.products[id] = p
		return nil
	}
	for _, id := range m.order {
		if err := assign(id, "TMP-"+id); err != nil {
			return 0, err
		}
	}
	for i, id := range m.order {
		if err := assign(id, fmt.Sprintf("PRD%04d", i+1)); err != nil {
			return 0, err
		}
	}
	return len(m.order), nil
}

func newService(repo Repository) *Service {
	return NewService(repo, validate.New())
}

func TestCreateTrimsAndStores(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)

	p, err := svc.Create(context.Background(), CreateForm{
		Name: "  Kopi Botol  ", SKU: " PRD0001 ", Price: 3000, CostPrice: 2000, Stock: 10,
	})
	require.NoError(t, err)
	require.Equal(t, "Kopi Botol", p.Name)
	require.Equal(t, "PRD0001", p.SKU)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateForm{Name: "Kopi Botol", SKU: "PRD0001"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateForm{Name: "KOPI BOTOL", SKU: "PRD0002"})
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "Produk dengan nama ini sudah ada.", apperr.MessageOf(err))
}

func TestCreateRejectsDuplicateSKU(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateForm{Name: "Kopi Botol", SKU: "PRD0001"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateForm{Name: "Teh Kotak", SKU: "PRD0001"})
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "SKU produk sudah digunakan.", apperr.MessageOf(err))
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)

	_, err := svc.Create(context.Background(), CreateForm{Name: "Kopi", SKU: "PRD0001", Price: -1})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Equal(t, "Harga jual tidak boleh negatif.", apperr.MessageOf(err))
}

func TestArchivedProductFreesItsNameAndSKU(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateForm{Name: "Kopi Botol", SKU: "PRD0001"})
	require.NoError(t, err)

	_, err = svc.Archive(ctx, p.ID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateForm{Name: "Kopi Botol", SKU: "PRD0001"})
	require.NoError(t, err)
}

func TestArchiveTwiceConflicts(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateForm{Name: "Kopi Botol", SKU: "PRD0001"})
	require.NoError(t, err)

	_, err = svc.Archive(ctx, p.ID)
	require.NoError(t, err)

	_, err = svc.Archive(ctx, p.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "Produk sudah dihapus sebelumnya.", apperr.MessageOf(err))
}

func TestRestoreRequiresArchivedState(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateForm{Name: "Kopi Botol", SKU: "PRD0001"})
	require.NoError(t, err)

	_, err = svc.Restore(ctx, p.ID)
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "Produk tidak dalam status arsip.", apperr.MessageOf(err))

	_, err = svc.Archive(ctx, p.ID)
	require.NoError(t, err)

	restored, err := svc.Restore(ctx, p.ID)
	require.NoError(t, err)
	require.Nil(t, restored.DeletedAt)
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateForm{Name: "Kopi Botol", SKU: "PRD0001", Price: 3000, CostPrice: 2000, Stock: 10})
	require.NoError(t, err)

	price := int64(3500)
	updated, err := svc.Update(ctx, p.ID, UpdateForm{Price: &price})
	require.NoError(t, err)
	require.Equal(t, int64(3500), updated.Price)
	require.Equal(t, "Kopi Botol", updated.Name)
	require.Equal(t, int64(2000), updated.CostPrice)
	require.Equal(t, 10, updated.Stock)
}

func TestUpdateAllowsKeepingOwnSKU(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateForm{Name: "Kopi Botol", SKU: "PRD0001"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, p.ID, UpdateForm{Name: "Kopi Botol Dingin", SKU: "PRD0001"})
	require.NoError(t, err)
}

func TestNextSKUUsesHighestNumber(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateForm{Name: "Kopi", SKU: "PRD0007"})
	require.NoError(t, err)

	sku, err := svc.NextSKU(ctx)
	require.NoError(t, err)
	require.Equal(t, "PRD0008", sku)
}

func TestNextSKUFallsBackToCount(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateForm{Name: "Kopi", SKU: "KOPI-1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateForm{Name: "Teh", SKU: "TEH-1"})
	require.NoError(t, err)

	sku, err := svc.NextSKU(ctx)
	require.NoError(t, err)
	require.Equal(t, "PRD0003", sku)
}

func TestRegenerateSKUsRenumbersByCreation(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateForm{Name: "Kopi", SKU: "KOPI-1"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateForm{Name: "Teh", SKU: "TEH-1"})
	require.NoError(t, err)

	count, err := svc.RegenerateSKUs(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	p1, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "PRD0001", p1.SKU)

	p2, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, "PRD0002", p2.SKU)
}

func TestRegenerateSKUsHandlesShuffledNumbers(t *testing.T) {
	repo := newMockRepository()
	svc := newService(repo)
	ctx := context.Background()

	// The oldest product holds PRD0002 while a newer one holds PRD0001, so
	// renumbering directly would assign a SKU another row still occupies.
	first, err := svc.Create(ctx, CreateForm{Name: "Kopi", SKU: "PRD0002"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateForm{Name: "Teh", SKU: "PRD0001"})
	require.NoError(t, err)

	count, err := svc.RegenerateSKUs(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	p1, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "PRD0001", p1.SKU)

	p2, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, "PRD0002", p2.SKU)
}
