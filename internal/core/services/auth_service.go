package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gochicken/gochicken_backend/internal/apperrors"
	portsrepo "github.com/gochicken/gochicken_backend/internal/core/ports/repositories"
	portssvc "github.com/gochicken/gochicken_backend/internal/core/ports/services"
	"github.com/gochicken/gochicken_backend/internal/dto"
	"github.com/gochicken/gochicken_backend/internal/middleware"
	"github.com/gochicken/gochicken_backend/internal/platform/config"
	"github.com/gochicken/gochicken_backend/internal/utils"
)

// authService verifies operator credentials and issues bearer tokens.
type authService struct {
	cfg      *config.Config
	userRepo portsrepo.UserRepository
}

// NewAuthService creates a new authentication service.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserRepository) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg, userRepo: userRepo}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies the credentials and returns a signed token carrying the
// operator's role and branch. Wrong username and wrong password are
// indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		logger.Error("Failed to look up user for login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("Login failed: password mismatch", slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}

	token, expiresAt, err := utils.GenerateJWT(user.UserID, string(user.Role), user.BranchID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to sign token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to sign token: %w", apperrors.ErrInternal)
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.UserID,
		Role:      string(user.Role),
		BranchID:  user.BranchID,
	}, nil
}
