package salespeople

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kasira/kasira/internal/shared/apperr"
	"github.com/kasira/kasira/internal/validate"
)

// Service implements sales staff rules: case-insensitive name uniqueness and
// exact phone uniqueness among active records, plus the archive lifecycle.
type Service struct {
	repo      Repository
	validator *validate.Validator
}

// NewService constructs a Service.
func NewService(repo Repository, validator *validate.Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

// List returns active sales staff, newest first.
func (s *Service) List(ctx context.Context) ([]SalesPerson, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return result, nil
}

// ListArchived returns archived sales staff, most recently archived first.
func (s *Service) ListArchived(ctx context.Context) ([]SalesPerson, error) {
	result, err := s.repo.ListArchived(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return result, nil
}

// Create registers a new sales person.
func (s *Service) Create(ctx context.Context, form CreateForm) (SalesPerson, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	if err := s.validator.Struct(form); err != nil {
		return SalesPerson{}, err
	}

	if err := s.ensureUniqueName(ctx, form.Name, ""); err != nil {
		return SalesPerson{}, err
	}
	if form.Phone != "" {
		if err := s.ensureUniquePhone(ctx, form.Phone, ""); err != nil {
			return SalesPerson{}, err
		}
	}

	person := SalesPerson{
		ID:       uuid.NewString(),
		Name:     form.Name,
		Phone:    form.Phone,
		Company:  strings.TrimSpace(form.Company),
		Products: strings.TrimSpace(form.Products),
	}
	created, err := s.repo.Create(ctx, person)
	if err != nil {
		return SalesPerson{}, apperr.Internal(err)
	}
	return created, nil
}

// Update applies the provided fields over the stored record.
func (s *Service) Update(ctx context.Context, id string, form UpdateForm) (SalesPerson, error) {
	if err := s.validator.Struct(form); err != nil {
		return SalesPerson{}, err
	}
	current, err := s.get(ctx, id)
	if err != nil {
		return SalesPerson{}, err
	}

	if name := strings.TrimSpace(form.Name); name != "" {
		if !strings.EqualFold(name, current.Name) {
			if err := s.ensureUniqueName(ctx, name, id); err != nil {
				return SalesPerson{}, err
			}
		}
		current.Name = name
	}
	if form.Phone != nil {
		phone := strings.TrimSpace(*form.Phone)
		if phone != "" && phone != current.Phone {
			if err := s.ensureUniquePhone(ctx, phone, id); err != nil {
				return SalesPerson{}, err
			}
		}
		current.Phone = phone
	}
	if form.Company != nil {
		current.Company = strings.TrimSpace(*form.Company)
	}
	if form.Products != nil {
		current.Products = strings.TrimSpace(*form.Products)
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SalesPerson{}, apperr.NotFound("Data sales tidak ditemukan.")
		}
		return SalesPerson{}, apperr.Internal(err)
	}
	return updated, nil
}

// Archive stamps the record as deleted without removing the row.
func (s *Service) Archive(ctx context.Context, id string) (SalesPerson, error) {
	person, err := s.get(ctx, id)
	if err != nil {
		return SalesPerson{}, err
	}
	if person.Archived() {
		return SalesPerson{}, apperr.Conflict("Data sales sudah dihapus sebelumnya.")
	}
	if err := s.repo.Archive(ctx, id, time.Now()); err != nil {
		return SalesPerson{}, apperr.Internal(err)
	}
	return s.get(ctx, id)
}

// Restore clears the archive stamp.
func (s *Service) Restore(ctx context.Context, id string) (SalesPerson, error) {
	person, err := s.get(ctx, id)
	if err != nil {
		return SalesPerson{}, err
	}
	if !person.Archived() {
		return SalesPerson{}, apperr.Conflict("Data sales tidak dalam status arsip.")
	}
	if err := s.repo.Restore(ctx, id); err != nil {
		return SalesPerson{}, apperr.Internal(err)
	}
	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id string) (SalesPerson, error) {
	person, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SalesPerson{}, apperr.NotFound("Data sales tidak ditemukan.")
		}
		return SalesPerson{}, apperr.Internal(err)
	}
	return person, nil
}

func (s *Service) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	if _, err := s.repo.FindActiveByName(ctx, name, excludeID); err == nil {
		return apperr.Conflict("Sales dengan nama ini sudah ada.")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperr.Internal(err)
	}
	return nil
}

func (s *Service) ensureUniquePhone(ctx context.Context, phone, excludeID string) error {
	if _, err := s.repo.FindActiveByPhone(ctx, phone, excludeID); err == nil {
		return apperr.Conflict("Nomor telepon sudah terdaftar.")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperr.Internal(err)
	}
	return nil
}
