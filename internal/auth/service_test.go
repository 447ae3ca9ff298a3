package auth

import (
	"context"
	"testing"
	"time"

	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/shared/config"
	"ticketcore/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockRepository struct {
	createUserFn     func(ctx context.Context, user *users.User) error
	getUserByEmailFn func(ctx context.Context, email string) (*users.User, error)
	getUserByIDFn    func(ctx context.Context, id uuid.UUID) (*users.User, error)
	emailExistsFn    func(ctx context.Context, email string) (bool, error)
}

func (m *mockRepository) CreateUser(ctx context.Context, user *users.User) error {
	return m.createUserFn(ctx, user)
}

func (m *mockRepository) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	return m.getUserByEmailFn(ctx, email)
}

func (m *mockRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	return m.getUserByIDFn(ctx, id)
}

func (m *mockRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return m.emailExistsFn(ctx, email)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:       "test-secret",
			JWTExpiresIn: time.Hour,
		},
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to USER role", func(t *testing.T) {
		var created *users.User
		repo := &mockRepository{
			emailExistsFn: func(ctx context.Context, email string) (bool, error) { return false, nil },
			createUserFn: func(ctx context.Context, user *users.User) error {
				user.ID = uuid.New()
				created = user
				return nil
			},
		}
		svc := NewService(repo, testConfig())

		resp, err := svc.Register(ctx, &RegisterRequest{
			FirstName: "Asha",
			LastName:  "Rao",
			Email:     "asha@example.com",
			Password:  "s3cret-pass",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, users.RoleUser, created.Role)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "asha@example.com", resp.User.Email)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		repo := &mockRepository{
			emailExistsFn: func(ctx context.Context, email string) (bool, error) { return false, nil },
			createUserFn: func(ctx context.Context, user *users.User) error {
				t.Fatal("user must not be created for an unknown role")
				return nil
			},
		}
		svc := NewService(repo, testConfig())

		_, err := svc.Register(ctx, &RegisterRequest{
			FirstName: "Asha",
			LastName:  "Rao",
			Email:     "asha@example.com",
			Password:  "s3cret-pass",
			Role:      "SUPERADMIN",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := &mockRepository{
			emailExistsFn: func(ctx context.Context, email string) (bool, error) { return true, nil },
		}
		svc := NewService(repo, testConfig())

		_, err := svc.Register(ctx, &RegisterRequest{
			FirstName: "Asha",
			LastName:  "Rao",
			Email:     "asha@example.com",
			Password:  "s3cret-pass",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := &users.User{
		ID:       uuid.New(),
		Email:    "asha@example.com",
		Password: string(hashed),
		Role:     users.RoleOrganizer,
	}

	repo := &mockRepository{
		getUserByEmailFn: func(ctx context.Context, email string) (*users.User, error) {
			return stored, nil
		},
	}
	svc := NewService(repo, testConfig())

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, &LoginRequest{Email: "asha@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.Equal(t, string(users.RoleOrganizer), resp.User.Role)

		claims, err := svc.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, stored.ID.String(), claims.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &LoginRequest{Email: "asha@example.com", Password: "wrong"})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
	})
}
