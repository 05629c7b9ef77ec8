package categories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kasira/kasira/internal/platform/db"
	"github.com/kasira/kasira/internal/shared/apperr"
	"github.com/kasira/kasira/internal/validate"
)

// Service implements category rules: case-insensitive name uniqueness and a
// reference guard on delete.
type Service struct {
	repo      Repository
	validator *validate.Validator
}

// NewService constructs a Service.
func NewService(repo Repository, validator *validate.Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

// List returns all categories ordered by name.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return result, nil
}

// Create registers a new category with a unique name.
func (s *Service) Create(ctx context.Context, form CreateForm) (Category, error) {
	form.Name = strings.TrimSpace(form.Name)
	if err := s.validator.Struct(form); err != nil {
		return Category{}, err
	}

	if _, err := s.repo.FindByName(ctx, form.Name); err == nil {
		return Category{}, apperr.Conflict("Kategori dengan nama ini sudah ada.")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return Category{}, apperr.Internal(err)
	}

	created, err := s.repo.Create(ctx, Category{ID: uuid.NewString(), Name: form.Name})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Category{}, apperr.Conflict("Kategori dengan nama ini sudah ada.")
		}
		return Category{}, apperr.Internal(err)
	}
	return created, nil
}

// Delete removes a category unless products still reference it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Kategori tidak ditemukan.")
		}
		return apperr.Internal(err)
	}

	refs, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if refs > 0 {
		return apperr.Validation("Kategori tidak dapat dihapus karena masih digunakan oleh %d produk.", refs)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
