package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-wishlist/internal/database"
	"go-wishlist/internal/model"
	"go-wishlist/internal/repository"
	"go-wishlist/internal/repository/sqlite"
	"go-wishlist/internal/token"
)

type testEnv struct {
	users    *sqlite.UserRepository
	presents *sqlite.PresentRepository
	tokens   *token.Service
	userSvc  *UserService
	present  *PresentService
	auth     *AuthService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := database.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := token.NewService(token.Config{
		Secret:     "test-secret",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	})
	require.NoError(t, err)

	users := sqlite.NewUserRepository(db)
	presents := sqlite.NewPresentRepository(db)
	userSvc := NewUserService(users, bcrypt.MinCost)

	return testEnv{
		users:    users,
		presents: presents,
		tokens:   tokens,
		userSvc:  userSvc,
		present:  NewPresentService(presents, users, userSvc),
		auth:     NewAuthService(users, tokens, bcrypt.MinCost),
	}
}

func (e testEnv) seedUser(t *testing.T, name string) int64 {
	t.Helper()

	u := model.User{Name: name, LastName: "Test", PasswordHash: "x"}
	require.NoError(t, e.users.Create(context.Background(), &u))
	return u.ID
}

func (e testEnv) seedPresent(t *testing.T, title string) int64 {
	t.Helper()

	p := model.Present{Title: title}
	require.NoError(t, e.presents.Create(context.Background(), &p))
	return p.ID
}

type mockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*mockUserRepository)(nil)

func (m *mockUserRepository) Create(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserRepository) FindByName(ctx context.Context, name string) (model.User, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserRepository) FindFriend(ctx context.Context, userID int64, friendID int64) (model.User, error) {
	args := m.Called(ctx, userID, friendID)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, u model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// WithRelationTx hands the configured RelationTx (if any) to fn.
func (m *mockUserRepository) WithRelationTx(ctx context.Context, fn func(tx repository.RelationTx) error) error {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(repository.RelationTx); ok {
		if err := fn(tx); err != nil {
			return err
		}
	}
	return args.Error(1)
}

func (m *mockUserRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockRelationTx struct {
	mock.Mock
}

func (m *mockRelationTx) LockUser(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockRelationTx) UserExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRelationTx) PresentExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRelationTx) SaveRelations(ctx context.Context, u model.User) error {
	return m.Called(ctx, u).Error(0)
}
