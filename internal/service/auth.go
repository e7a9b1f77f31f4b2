package service

import (
	"errors"
	"fmt"
	"regexp"

	"flashcards/internal/apperr"
	"flashcards/internal/models"
	"flashcards/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

const minPasswordLength = 6

type AuthService interface {
	Register(username, password string, admin bool) (*models.User, error)
	Login(username, password string) (string, *models.User, error)
	ChangePassword(userID int64, newPassword string) error
	HashPassword(password string) (string, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *TokenManager
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens *TokenManager, logger *zap.Logger) AuthService {
	return &authService{users: users, tokens: tokens, logger: logger}
}

func (s *authService) Register(username, password string, admin bool) (*models.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, apperr.New(apperr.Validation, "Username must be 3-30 characters of letters, numbers or underscores")
	}
	if len(password) < minPasswordLength {
		return nil, apperr.New(apperr.Validation, "Password must be at least 6 characters")
	}

	passwordHash, err := s.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Admin:        admin,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.New(apperr.Conflict, "Username is already taken")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("username", user.Username), zap.Int64("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and issues a token. Unknown usernames and wrong
// passwords produce the same client-facing message so the endpoint cannot be
// used to enumerate accounts; only the status code differs.
func (s *authService) Login(username, password string) (string, *models.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperr.New(apperr.NotFound, "Invalid username or password")
		}
		s.logger.Error("Failed to get user by username", zap.Error(err))
		return "", nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.New(apperr.Unauthenticated, "Invalid username or password")
	}

	tokenString, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("username", user.Username))
	return tokenString, user, nil
}

func (s *authService) ChangePassword(userID int64, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperr.New(apperr.Validation, "Password must be at least 6 characters")
	}
	passwordHash, err := s.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(userID, passwordHash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.NotFound, "User not found")
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// HashPassword hashes a plaintext password with bcrypt. The plaintext is
// never logged.
func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
