package units

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

// Service implements unit rules, mirroring categories.
type Service struct {
	repo      Repository
	validator *validate.Validator
}

// NewService constructs a Service.
func NewService(repo Repository, validator *validate.Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

// List returns all units ordered by name.
func (s *Service) List(ctx context.Context) ([]Unit, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return result, nil
}

// Create registers a new unit with a unique name.
func (s *Service) Create(ctx context.Context, form CreateForm) (Unit, error) {
	form.Name = strings.TrimSpace(form.Name)
	if err := s.validator.Struct(form); err != nil {
		return Unit{}, err
	}

	if _, err := s.repo.FindByName(ctx, form.Name); err == nil {
		return Unit{}, apperr.Conflict("Satuan dengan nama ini sudah ada.")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return Unit{}, apperr.Internal(err)
	}

	created, err := s.repo.Create(ctx, Unit{ID: uuid.NewString(), Name: form.Name})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Unit{}, apperr.Conflict("Satuan dengan nama ini sudah ada.")
		}
		return Unit{}, apperr.Internal(err)
	}
	return created, nil
}

// Delete removes a unit unless products still reference it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Satuan tidak ditemukan.")
		}
		return apperr.Internal(err)
	}

	refs, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if refs > 0 {
		return apperr.Validation("Satuan tidak dapat dihapus karena masih digunakan oleh %d produk.", refs)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
