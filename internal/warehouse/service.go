package warehouse

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kasira/kasira/internal/shared/apperr"
)

// Service implements the movement ledger rules. The quantity and type checks
// live here because their messages are bespoke sentences rather than
// per-field translations.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns active entries, most recent movement date first.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return result, nil
}

// ListArchived returns archived entries, most recently archived first.
func (s *Service) ListArchived(ctx context.Context) ([]Entry, error) {
	result, err := s.repo.ListArchived(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return result, nil
}

// Create records a movement. Missing fields, an unknown direction, or a
// non-positive or fractional quantity are rejected.
func (s *Service) Create(ctx context.Context, form CreateForm) (Entry, error) {
	form.ProductName = strings.TrimSpace(form.ProductName)
	if form.ProductName == "" || form.Type == "" || form.Quantity == nil {
		return Entry{}, apperr.Validation("Nama produk, tipe, dan jumlah wajib diisi.")
	}
	if form.Type != TypeIn && form.Type != TypeOut {
		return Entry{}, apperr.Validation(`Tipe harus "masuk" atau "keluar".`)
	}
	quantity, err := wholePositive(*form.Quantity)
	if err != nil {
		return Entry{}, err
	}

	date, err := parseDate(form.Date)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		ID:          uuid.NewString(),
		ProductName: form.ProductName,
		Type:        form.Type,
		Quantity:    quantity,
		Date:        date,
		Notes:       normalizeNotes(form.Notes),
	}
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return Entry{}, apperr.Internal(err)
	}
	return created, nil
}

// Update changes an active entry. Archived entries are immutable until
// restored.
func (s *Service) Update(ctx context.Context, id string, form UpdateForm) (Entry, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if current.Archived() {
		return Entry{}, apperr.Conflict("Data gudang sudah diarsipkan.")
	}

	if name := strings.TrimSpace(form.ProductName); name != "" {
		current.ProductName = name
	}
	if form.Type != "" {
		if form.Type != TypeIn && form.Type != TypeOut {
			return Entry{}, apperr.Validation(`Tipe harus "masuk" atau "keluar".`)
		}
		current.Type = form.Type
	}
	if form.Quantity != nil {
		quantity, err := wholePositive(*form.Quantity)
		if err != nil {
			return Entry{}, err
		}
		current.Quantity = quantity
	}
	if form.Date != "" {
		date, err := parseDate(form.Date)
		if err != nil {
			return Entry{}, err
		}
		current.Date = date
	}
	if form.Notes != nil {
		current.Notes = normalizeNotes(form.Notes)
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, apperr.NotFound("Data gudang tidak ditemukan.")
		}
		return Entry{}, apperr.Internal(err)
	}
	return updated, nil
}

// Archive stamps the entry as deleted without removing the row.
func (s *Service) Archive(ctx context.Context, id string) (Entry, error) {
	entry, err := s.get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if entry.Archived() {
		return Entry{}, apperr.Conflict("Data gudang sudah diarsipkan sebelumnya.")
	}
	if err := s.repo.Archive(ctx, id, time.Now()); err != nil {
		return Entry{}, apperr.Internal(err)
	}
	return s.get(ctx, id)
}

// Restore clears the archive stamp.
func (s *Service) Restore(ctx context.Context, id string) (Entry, error) {
	entry, err := s.get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if !entry.Archived() {
		return Entry{}, apperr.Conflict("Data gudang tidak dalam status arsip.")
	}
	if err := s.repo.Restore(ctx, id); err != nil {
		return Entry{}, apperr.Internal(err)
	}
	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id string) (Entry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, apperr.NotFound("Data gudang tidak ditemukan.")
		}
		return Entry{}, apperr.Internal(err)
	}
	return entry, nil
}

func wholePositive(quantity float64) (int, error) {
	if quantity <= 0 || quantity != math.Trunc(quantity) {
		return 0, apperr.Validation("Jumlah harus berupa bilangan bulat positif.")
	}
	return int(quantity), nil
}

// parseDate accepts RFC 3339 timestamps and bare dates; empty means now.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Validation("Format tanggal tidak valid.")
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
