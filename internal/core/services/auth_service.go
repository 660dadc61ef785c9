package services

import (
	"context"
	"errors"
	"strings"

	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/config"
	"library-lending/internal/core/domain"
	"library-lending/internal/pkg/jwt"
	"library-lending/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService handles librarian authentication
type AuthService struct {
	librarianRepo repositories.LibrarianRepository
	cfg           *config.Config
	logger        *zap.Logger
	passwordCost  int
}

// AuthOption configures an AuthService
type AuthOption func(*AuthService)

// WithPasswordCost overrides the bcrypt cost used when registering
func WithPasswordCost(cost int) AuthOption {
	return func(s *AuthService) {
		s.passwordCost = cost
	}
}

// NewAuthService creates a new auth service
func NewAuthService(
	librarianRepo repositories.LibrarianRepository,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		librarianRepo: librarianRepo,
		cfg:           cfg,
		logger:        logger,
		passwordCost:  password.DefaultCost,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RegisterInput represents registration input
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Librarian   *domain.Librarian
	AccessToken string
}

// Register creates a librarian account and signs them in
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput
	}

	// 1. Check password strength
	if !password.ValidatePassword(input.Password) {
		return nil, domain.ErrWeakPassword
	}

	// 2. Check if email already exists
	exists, err := s.librarianRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrLibrarianExists
	}

	// 3. Hash password
	hashedPassword, err := password.HashWithCost(input.Password, s.passwordCost)
	if err != nil {
		return nil, err
	}

	// 4. Create librarian
	librarian := &domain.Librarian{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
	}
	if err := s.librarianRepo.Create(ctx, librarian); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrLibrarianExists
		}
		return nil, err
	}

	// 5. Generate token
	token, err := s.generateToken(librarian)
	if err != nil {
		return nil, err
	}

	s.logger.Info("✅ Librarian registered", zap.Uint("librarian_id", librarian.ID), zap.String("email", librarian.Email))

	return &AuthResponse{Librarian: librarian, AccessToken: token}, nil
}

// Login authenticates a librarian
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// 1. Find librarian by email
	librarian, err := s.librarianRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Verify password
	if !password.Verify(input.Password, librarian.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	// 3. Generate token
	token, err := s.generateToken(librarian)
	if err != nil {
		return nil, err
	}

	s.logger.Info("✅ Librarian logged in", zap.Uint("librarian_id", librarian.ID))

	return &AuthResponse{Librarian: librarian, AccessToken: token}, nil
}

// Me returns the signed-in librarian
func (s *AuthService) Me(ctx context.Context, librarianID uint) (*domain.Librarian, error) {
	librarian, err := s.librarianRepo.GetByID(ctx, librarianID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLibrarianNotFound
		}
		return nil, err
	}
	return librarian, nil
}

func (s *AuthService) generateToken(librarian *domain.Librarian) (string, error) {
	return jwt.GenerateAccessToken(
		librarian.ID,
		librarian.Email,
		librarian.Name,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
}
