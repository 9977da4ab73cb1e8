package services

import (
	"context"

	"github.com/gochicken/gochicken_backend/internal/dto"
)

// AuthSvcFacade issues bearer tokens for operator accounts.
type AuthSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}
