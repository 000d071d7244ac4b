package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/blogem/loan-approval/logging"
	"github.com/blogem/loan-approval/models"
	"github.com/blogem/loan-approval/repositories"
)

// AuthService interface defines login and registration business logic
type AuthService interface {
	Authenticate(ctx context.Context, form *models.LoginForm) (*models.Identity, error)
	Register(ctx context.Context, form *models.RegistrationForm) (*models.Identity, error)
}

// authService implements AuthService interface
type authService struct {
	identityRepo repositories.IdentityRepository
	logger       *logging.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(identityRepo repositories.IdentityRepository, logger *logging.Logger) AuthService {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &authService{
		identityRepo: identityRepo,
		logger:       logger.Named("auth"),
	}
}

// Authenticate checks the submitted credentials against the identity store
func (s *authService) Authenticate(ctx context.Context, form *models.LoginForm) (*models.Identity, error) {
	username := strings.TrimSpace(form.Username)
	if username == "" || form.Password == "" {
		return nil, models.ErrAuth
	}

	identity, err := s.identityRepo.GetByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		s.logger.Info("Login failed", zap.String("username", username))
		return nil, models.ErrAuth
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(identity.Password), []byte(form.Password)) != 1 {
		s.logger.Info("Login failed", zap.String("username", username))
		return nil, models.ErrAuth
	}

	return identity, nil
}

// Register creates a new identity with validation
func (s *authService) Register(ctx context.Context, form *models.RegistrationForm) (*models.Identity, error) {
	// Validate form
	if errs := form.Validate(); errs.HasErrors() {
		return nil, errs
	}

	identity := &models.Identity{
		Username: strings.TrimSpace(form.Username),
		Password: form.Password,
	}

	created, err := s.identityRepo.CreateIfAbsent(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to register identity: %w", err)
	}
	if !created {
		return nil, fmt.Errorf("%w: %s", models.ErrUsernameTaken, identity.Username)
	}

	s.logger.Info("Identity registered", zap.String("username", identity.Username))
	return identity, nil
}
