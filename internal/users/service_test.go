package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kasira/kasira/internal/shared"
	"github.com/kasira/kasira/internal/shared/apperr"
	"github.com/kasira/kasira/internal/validate"
)

type mockRepository struct {
	users map[string]User
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[string]User)}
}

func (m *mockRepository) List(ctx context.Context) ([]User, error) {
	result := make([]User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNoRows
	}
	return u, nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email, excludeID string) (User, error) {
	for _, u := range m.users {
		if u.Email == email && u.ID != excludeID {
			return u, nil
		}
	}
	return User{}, ErrNoRows
}

func (m *mockRepository) FindByName(ctx context.Context, name, excludeID string) (User, error) {
	for _, u := range m.users {
		if u.Name == name && u.ID != excludeID {
			return u, nil
		}
	}
	return User{}, ErrNoRows
}

func (m *mockRepository) FindLatestLogin(ctx context.Context) (User, error) {
	var latest *User
	for _, u := range m.users {
		if u.LastLoginAt == nil {
			continue
		}
		if latest == nil || u.LastLoginAt.After(*latest.LastLoginAt) {
			copy := u
			latest = &copy
		}
	}
	if latest == nil {
		return User{}, ErrNoRows
	}
	return *latest, nil
}

func (m *mockRepository) CountAdmins(ctx context.Context) (int, error) {
	count := 0
	for _, u := range m.users {
		if u.Role == RoleAdmin {
			count++
		}
	}
	return count, nil
}

func (m *mockRepository) Create(ctx context.Context, user User) (User, error) {
	m.users[user.ID] = user
	return user, nil
}

func (m *mockRepository) Update(ctx context.Context, user User) (User, error) {
	if _, ok := m.users[user.ID]; !ok {
		return User{}, ErrNoRows
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return ErrNoRows
	}
	delete(m.users, id)
	return nil
}

func newTestService() (*Service, *mockRepository) {
	repo := newMockRepository()
	return NewService(repo, validate.New()), repo
}

func TestCreateDefaultsToAdminRole(t *testing.T) {
	svc, repo := newTestService()

	user, err := svc.Create(context.Background(), CreateForm{
		Name: "Budi", Email: "Budi@Toko.id", Password: "rahasia",
	})
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, user.Role)
	require.Equal(t, "budi@toko.id", user.Email)
	require.NotEmpty(t, repo.users[user.ID].PasswordHash)
	require.NotEqual(t, "rahasia", repo.users[user.ID].PasswordHash)
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreateForm{Name: "Budi", Email: "b@t.id", Password: "12345"})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Equal(t, "Kata sandi harus minimal 6 karakter.", apperr.MessageOf(err))
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateForm{Name: "Budi", Email: "b@t.id", Password: "rahasia"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateForm{Name: "Siti", Email: "B@T.ID", Password: "rahasia"})
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "Email sudah terdaftar.", apperr.MessageOf(err))
}

func TestDeleteLastAdminRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	admin, err := svc.Create(ctx, CreateForm{Name: "Budi", Email: "b@t.id", Password: "rahasia", Role: RoleAdmin})
	require.NoError(t, err)

	err = svc.Delete(ctx, admin.ID, shared.Identity{UserID: "someone-else", Role: RoleAdmin})
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.Equal(t, "Tidak dapat menghapus admin terakhir.", apperr.MessageOf(err))
}

func TestDeleteSecondAdminAllowed(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateForm{Name: "Budi", Email: "b@t.id", Password: "rahasia", Role: RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateForm{Name: "Siti", Email: "s@t.id", Password: "rahasia", Role: RoleAdmin})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, first.ID, shared.Identity{UserID: "other", Role: RoleAdmin}))
	require.Len(t, repo.users, 1)
}

func TestDeleteNonAdminAllowed(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateForm{Name: "Budi", Email: "b@t.id", Password: "rahasia", Role: RoleAdmin})
	require.NoError(t, err)
	kasir, err := svc.Create(ctx, CreateForm{Name: "Siti", Email: "s@t.id", Password: "rahasia", Role: RoleUser})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, kasir.ID, shared.Identity{UserID: "other", Role: RoleAdmin}))
}

func TestDeleteSelfRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateForm{Name: "Budi", Email: "b@t.id", Password: "rahasia", Role: RoleAdmin})
	require.NoError(t, err)
	victim, err := svc.Create(ctx, CreateForm{Name: "Siti", Email: "s@t.id", Password: "rahasia", Role: RoleUser})
	require.NoError(t, err)

	err = svc.Delete(ctx, victim.ID, shared.Identity{UserID: victim.ID, Role: RoleUser})
	require.Error(t, err)
	require.Equal(t, "Tidak dapat menghapus akun sendiri.", apperr.MessageOf(err))
}

func TestUpdateSoleAdminCannotChangeOwnRole(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	admin, err := svc.Create(ctx, CreateForm{Name: "Budi", Email: "b@t.id", Password: "rahasia", Role: RoleAdmin})
	require.NoError(t, err)

	_, err = svc.Update(ctx, admin.ID, UpdateForm{Role: RoleUser}, shared.Identity{UserID: admin.ID, Role: RoleAdmin})
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLastLoginEmpty(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.LastLogin(context.Background())
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	require.Equal(t, "Tidak ada data login.", apperr.MessageOf(err))
}
