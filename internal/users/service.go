package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasira/kasira/internal/shared"
	"github.com/kasira/kasira/internal/shared/apperr"
	"github.com/kasira/kasira/internal/validate"
)

// Service implements account management rules, including the last-admin
// protections.
type Service struct {
	repo      Repository
	validator *validate.Validator
}

// NewService constructs a Service.
func NewService(repo Repository, validator *validate.Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

// List returns every account, newest first.
func (s *Service) List(ctx context.Context) ([]PublicUser, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	result := make([]PublicUser, 0, len(records))
	for _, u := range records {
		result = append(result, u.Public())
	}
	return result, nil
}

// LastLogin returns the account that signed in most recently.
func (s *Service) LastLogin(ctx context.Context) (PublicUser, error) {
	u, err := s.repo.FindLatestLogin(ctx)
	if err != nil {
		if IsNoRows(err) {
			return PublicUser{}, apperr.NotFound("Tidak ada data login.")
		}
		return PublicUser{}, apperr.Internal(err)
	}
	return u.Public(), nil
}

// Create registers a new account.
func (s *Service) Create(ctx context.Context, form CreateForm) (PublicUser, error) {
	if err := s.validator.Struct(form); err != nil {
		return PublicUser{}, err
	}

	email := strings.ToLower(strings.TrimSpace(form.Email))
	name := strings.TrimSpace(form.Name)

	if _, err := s.repo.FindByEmail(ctx, email, ""); err == nil {
		return PublicUser{}, apperr.Conflict("Email sudah terdaftar.")
	} else if !IsNoRows(err) {
		return PublicUser{}, apperr.Internal(err)
	}
	if _, err := s.repo.FindByName(ctx, name, ""); err == nil {
		return PublicUser{}, apperr.Conflict("Nama pengguna sudah digunakan.")
	} else if !IsNoRows(err) {
		return PublicUser{}, apperr.Internal(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return PublicUser{}, apperr.Internal(err)
	}

	role := form.Role
	if role == "" {
		role = RoleAdmin
	}

	created, err := s.repo.Create(ctx, User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return PublicUser{}, apperr.Internal(err)
	}
	return created.Public(), nil
}

// Update applies partial changes to an account. Changing the role of the sole
// remaining admin's own account is rejected.
func (s *Service) Update(ctx context.Context, id string, form UpdateForm, actor shared.Identity) (PublicUser, error) {
	if err := s.validator.Struct(form); err != nil {
		return PublicUser{}, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNoRows(err) {
			return PublicUser{}, apperr.NotFound("Pengguna tidak ditemukan.")
		}
		return PublicUser{}, apperr.Internal(err)
	}

	if email := strings.ToLower(strings.TrimSpace(form.Email)); email != "" && email != existing.Email {
		if _, err := s.repo.FindByEmail(ctx, email, id); err == nil {
			return PublicUser{}, apperr.Conflict("Email sudah terdaftar.")
		} else if !IsNoRows(err) {
			return PublicUser{}, apperr.Internal(err)
		}
		existing.Email = email
	}

	if name := strings.TrimSpace(form.Name); name != "" {
		existing.Name = name
	}

	if form.Role != "" && form.Role != existing.Role && actor.UserID == id {
		admins, err := s.repo.CountAdmins(ctx)
		if err != nil {
			return PublicUser{}, apperr.Internal(err)
		}
		if admins == 1 && existing.Role == RoleAdmin {
			return PublicUser{}, apperr.Conflict("Tidak dapat mengubah role. Anda adalah satu-satunya admin.")
		}
	}
	if form.Role != "" {
		existing.Role = form.Role
	}

	if form.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			return PublicUser{}, apperr.Internal(err)
		}
		existing.PasswordHash = string(hash)
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return PublicUser{}, apperr.Internal(err)
	}
	return updated.Public(), nil
}

// Delete removes an account. Self-deletion and deleting the last admin are
// rejected.
func (s *Service) Delete(ctx context.Context, id string, actor shared.Identity) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNoRows(err) {
			return apperr.NotFound("Pengguna tidak ditemukan.")
		}
		return apperr.Internal(err)
	}

	if actor.UserID == id {
		return apperr.Conflict("Tidak dapat menghapus akun sendiri.")
	}

	if existing.Role == RoleAdmin {
		admins, err := s.repo.CountAdmins(ctx)
		if err != nil {
			return apperr.Internal(err)
		}
		if admins == 1 {
			return apperr.Conflict("Tidak dapat menghapus admin terakhir.")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	return nil
}
