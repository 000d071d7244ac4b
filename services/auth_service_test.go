package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blogem/loan-approval/models"
	"github.com/blogem/loan-approval/repositories"
	"github.com/blogem/loan-approval/repositories/mocks"
)

func newIdentityStore(t *testing.T) (repositories.IdentityRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.csv")
	repo, err := repositories.NewIdentityRepository(path, []models.Identity{{Username: "admin", Password: "admin123"}})
	require.NoError(t, err)
	return repo, path
}

func TestAuthService_Authenticate(t *testing.T) {
	repo, _ := newIdentityStore(t)
	svc := NewAuthService(repo, nil)
	ctx := context.Background()

	identity, err := svc.Authenticate(ctx, &models.LoginForm{Username: " admin ", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", identity.Username)

	_, err = svc.Authenticate(ctx, &models.LoginForm{Username: "admin", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrAuth)

	_, err = svc.Authenticate(ctx, &models.LoginForm{Username: "ghost", Password: "admin123"})
	assert.ErrorIs(t, err, models.ErrAuth)

	_, err = svc.Authenticate(ctx, &models.LoginForm{})
	assert.ErrorIs(t, err, models.ErrAuth)
}

func TestAuthService_Register(t *testing.T) {
	repo, path := newIdentityStore(t)
	svc := NewAuthService(repo, nil)
	ctx := context.Background()

	identity, err := svc.Register(ctx, &models.RegistrationForm{Username: "jane", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "jane", identity.Username)

	// The new identity can log in, also through a fresh repository over the same file
	reopened, err := repositories.NewIdentityRepository(path, nil)
	require.NoError(t, err)
	_, err = NewAuthService(reopened, nil).Authenticate(ctx, &models.LoginForm{Username: "jane", Password: "secret1"})
	assert.NoError(t, err)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	repo, path := newIdentityStore(t)
	svc := NewAuthService(repo, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &models.RegistrationForm{Username: "admin", Password: "other12", ConfirmPassword: "other12"})
	assert.ErrorIs(t, err, models.ErrUsernameTaken)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "admin,"))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	mockRepo := mocks.NewMockIdentityRepository(t)
	svc := NewAuthService(mockRepo, nil)

	_, err := svc.Register(context.Background(), &models.RegistrationForm{Username: "jo", Password: "123", ConfirmPassword: "123"})

	var verrs models.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)
	mockRepo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestAuthService_StorageError(t *testing.T) {
	mockRepo := mocks.NewMockIdentityRepository(t)
	mockRepo.EXPECT().GetByUsername(mock.Anything, "admin").Return(nil, models.ErrStorage)

	_, err := NewAuthService(mockRepo, nil).Authenticate(context.Background(), &models.LoginForm{Username: "admin", Password: "x"})

	assert.ErrorIs(t, err, models.ErrStorage)
	assert.NotErrorIs(t, err, models.ErrAuth)
}
