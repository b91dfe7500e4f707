package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/models"
	"github.com/noah-isme/siakad-cli/internal/session"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

type authRepository interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
}

// AuthService signs users in and out of the shared session handle.
type AuthService struct {
	repo      authRepository
	session   *session.Session
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authRepository, sess *session.Session, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, session: sess, validator: validate, logger: logger}
}

// Login exchanges credentials for a token and makes it the current session.
// On any failure the previous session stays as it was.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	req := models.LoginRequest{Username: username, Password: password}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "username and password are required")
	}

	res, err := s.repo.Login(ctx, req)
	if err != nil {
		return nil, appErrors.OrFallback(err, "login failed")
	}
	return s.establish(ctx, res)
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	res, err := s.repo.Register(ctx, req)
	if err != nil {
		return nil, appErrors.OrFallback(err, "registration failed")
	}
	return s.establish(ctx, res)
}

func (s *AuthService) establish(ctx context.Context, res *models.AuthResponse) (*models.User, error) {
	if res == nil || res.AccessToken == "" {
		return nil, appErrors.Clone(appErrors.ErrInternal, "server returned no access token")
	}
	if err := s.session.Establish(ctx, res.AccessToken, res.User); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	s.logger.Info("signed in", zap.String("username", res.User.Username), zap.String("role", string(res.User.Role)))
	user := res.User
	return &user, nil
}

// Logout forgets the current session. It never fails.
func (s *AuthService) Logout(ctx context.Context) {
	s.session.Clear(ctx)
}

// Current returns the signed in user.
func (s *AuthService) Current() (*models.User, error) {
	user, ok := s.session.User()
	if !ok {
		return nil, appErrors.ErrNotAuthenticated
	}
	return &user, nil
}

// TokenExpiry reports the expiry of the current token when it is a JWT.
func (s *AuthService) TokenExpiry() (time.Time, bool) {
	return session.TokenExpiry(s.session.Token())
}
