package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charterbook/internal/auth"
	apperrors "charterbook/internal/errors"
	"charterbook/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (string, time.Time, error)
	CreateAdmin(ctx context.Context, email, password string) error
}

type adminAuthService struct {
	repo   repository.AdminAuthRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

func NewAdminAuthService(repo repository.AdminAuthRepository, tokens *auth.TokenManager, logger *zap.Logger) AdminAuthService {
	return &adminAuthService{repo: repo, tokens: tokens, logger: logger}
}

// Login returns a signed session token and its expiry. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *adminAuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, err
	}
	if admin == nil {
		return "", time.Time{}, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("admin login rejected", zap.String("email", email))
		return "", time.Time{}, apperrors.ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		return "", time.Time{}, err
	}
	s.logger.Info("admin signed in", zap.Int("admin_id", admin.ID))
	return token, expires, nil
}

func (s *adminAuthService) CreateAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return apperrors.ErrBadRequest("email and password cannot be empty")
	}
	if len(password) < minPasswordLength {
		return apperrors.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if err := s.repo.CreateNewUser(ctx, email, password); err != nil {
		return err
	}
	s.logger.Info("admin created", zap.String("email", email))
	return nil
}
