package repository

import (
	"context"

	"github.com/noah-isme/siakad-cli/internal/models"
)

// AuthRepository calls the unauthenticated auth endpoints.
type AuthRepository struct {
	client apiClient
}

// NewAuthRepository constructs an AuthRepository.
func NewAuthRepository(client apiClient) *AuthRepository {
	return &AuthRepository{client: client}
}

// Login exchanges credentials for a token and user.
func (r *AuthRepository) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var res models.AuthResponse
	if err := r.client.Post(ctx, "/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and returns its token and user.
func (r *AuthRepository) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var res models.AuthResponse
	if err := r.client.Post(ctx, "/auth/register", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
