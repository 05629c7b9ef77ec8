package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kasira/kasira/internal/shared/apperr"
	"github.com/kasira/kasira/internal/validate"
)

// Service implements product rules: name and SKU uniqueness among active
// products, the archive lifecycle, and sequential SKU generation.
type Service struct {
	repo      Repository
	validator *validate.Validator
}

// NewService constructs a Service.
func NewService(repo Repository, validator *validate.Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

// List returns active products, newest first.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return result, nil
}

// ListArchived returns archived products, most recently archived first.
func (s *Service) ListArchived(ctx context.Context) ([]Product, error) {
	result, err := s.repo.ListArchived(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return result, nil
}

// Get fetches a product by id regardless of archive state.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound("Produk tidak ditemukan.")
		}
		return Product{}, apperr.Internal(err)
	}
	return product, nil
}

// Create registers a new product with a unique name and SKU.
func (s *Service) Create(ctx context.Context, form CreateForm) (Product, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.SKU = strings.TrimSpace(form.SKU)
	if err := s.validator.Struct(form); err != nil {
		return Product{}, err
	}

	if err := s.ensureUnique(ctx, form.Name, form.SKU, ""); err != nil {
		return Product{}, err
	}

	product := Product{
		ID:         uuid.NewString(),
		SKU:        form.SKU,
		Name:       form.Name,
		CategoryID: normalizeRef(form.CategoryID),
		UnitID:     normalizeRef(form.UnitID),
		Type:       strings.TrimSpace(form.Type),
		CostPrice:  form.CostPrice,
		Price:      form.Price,
		Stock:      form.Stock,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, apperr.Internal(err)
	}
	return created, nil
}

// Update applies the provided fields over the stored product. Nil numeric
// fields and empty strings keep the current value.
func (s *Service) Update(ctx context.Context, id string, form UpdateForm) (Product, error) {
	if err := s.validator.Struct(form); err != nil {
		return Product{}, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}

	if name := strings.TrimSpace(form.Name); name != "" {
		current.Name = name
	}
	if sku := strings.TrimSpace(form.SKU); sku != "" {
		current.SKU = sku
	}
	if form.CategoryID != nil {
		current.CategoryID = normalizeRef(form.CategoryID)
	}
	if form.UnitID != nil {
		current.UnitID = normalizeRef(form.UnitID)
	}
	if t := strings.TrimSpace(form.Type); t != "" {
		current.Type = t
	}
	if form.CostPrice != nil {
		current.CostPrice = *form.CostPrice
	}
	if form.Price != nil {
		current.Price = *form.Price
	}
	if form.Stock != nil {
		current.Stock = *form.Stock
	}

	if err := s.ensureUnique(ctx, current.Name, current.SKU, id); err != nil {
		return Product{}, err
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound("Produk tidak ditemukan.")
		}
		return Product{}, apperr.Internal(err)
	}
	return updated, nil
}

// Archive stamps the product as deleted without removing the row.
func (s *Service) Archive(ctx context.Context, id string) (Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if product.Archived() {
		return Product{}, apperr.Conflict("Produk sudah dihapus sebelumnya.")
	}
	if err := s.repo.Archive(ctx, id, time.Now()); err != nil {
		return Product{}, apperr.Internal(err)
	}
	return s.Get(ctx, id)
}

// Restore clears the archive stamp.
func (s *Service) Restore(ctx context.Context, id string) (Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if !product.Archived() {
		return Product{}, apperr.Conflict("Produk tidak dalam status arsip.")
	}
	if err := s.repo.Restore(ctx, id); err != nil {
		return Product{}, apperr.Internal(err)
	}
	return s.Get(ctx, id)
}

// NextSKU previews the SKU the next created product would get.
func (s *Service) NextSKU(ctx context.Context) (string, error) {
	number, err := s.repo.NextSKUNumber(ctx)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return fmt.Sprintf("PRD%04d", number), nil
}

// RegenerateSKUs renumbers the whole catalog by creation date.
func (s *Service) RegenerateSKUs(ctx context.Context) (int, error) {
	count, err := s.repo.RegenerateSKUs(ctx)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

func (s *Service) ensureUnique(ctx context.Context, name, sku, excludeID string) error {
	if _, err := s.repo.FindActiveByName(ctx, name, excludeID); err == nil {
		return apperr.Conflict("Produk dengan nama ini sudah ada.")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperr.Internal(err)
	}
	if _, err := s.repo.FindActiveBySKU(ctx, sku, excludeID); err == nil {
		return apperr.Conflict("SKU produk sudah digunakan.")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperr.Internal(err)
	}
	return nil
}

func normalizeRef(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
