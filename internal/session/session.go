package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/siakad-cli/internal/models"
)

// Durable storage keys.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateUnknown State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Store is the durable key/value storage the session is persisted to.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Session is the single handle describing who is logged in. It is created
// once at startup and passed to everything that needs it.
type Session struct {
	store  Store
	logger *zap.Logger

	mu    sync.RWMutex
	state State
	token string
	user  *models.User
}

// New constructs a Session in the unknown state.
func New(store Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, logger: logger, state: StateUnknown}
}

// Restore loads the persisted token and user. Both must be present for the
// session to become authenticated; the token is not revalidated remotely.
func (s *Session) Restore(ctx context.Context) error {
	token, user, err := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || token == "" || user == nil {
		s.state = StateAnonymous
		s.token = ""
		s.user = nil
		return err
	}

	s.state = StateAuthenticated
	s.token = token
	s.user = user
	if exp, ok := TokenExpiry(token); ok && time.Now().After(exp) {
		s.logger.Warn("restored session token has expired; the next request will be rejected",
			zap.String("username", user.Username), zap.Time("expired_at", exp))
	}
	return nil
}

func (s *Session) load(ctx context.Context) (string, *models.User, error) {
	token, ok, err := s.store.Get(ctx, KeyToken)
	if err != nil {
		return "", nil, fmt.Errorf("read session token: %w", err)
	}
	if !ok || token == "" {
		return "", nil, nil
	}
	rawUser, ok, err := s.store.Get(ctx, KeyUser)
	if err != nil {
		return "", nil, fmt.Errorf("read session user: %w", err)
	}
	if !ok || rawUser == "" {
		return "", nil, nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return "", nil, fmt.Errorf("decode session user: %w", err)
	}
	return token, &user, nil
}

// Establish persists a freshly issued token and user, then makes them
// current. On a storage failure the in-memory state is left as it was.
func (s *Session) Establish(ctx context.Context, token string, user models.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevToken, hadToken, err := s.store.Get(ctx, KeyToken)
	if err != nil {
		hadToken = false
	}
	if err := s.store.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("persist session token: %w", err)
	}
	if err := s.store.Set(ctx, KeyUser, string(rawUser)); err != nil {
		s.rollbackToken(ctx, prevToken, hadToken)
		return fmt.Errorf("persist session user: %w", err)
	}

	s.state = StateAuthenticated
	s.token = token
	s.user = &user
	return nil
}

// rollbackToken undoes a token write whose user write failed, so storage
// never pairs the new token with the previous user. Callers hold mu.
func (s *Session) rollbackToken(ctx context.Context, prev string, had bool) {
	if had {
		if err := s.store.Set(ctx, KeyToken, prev); err == nil {
			return
		}
	}
	if err := s.store.Delete(ctx, KeyToken, KeyUser); err != nil {
		s.logger.Warn("failed to roll back session token", zap.Error(err))
	}
}

// Clear removes the persisted entries and forgets the identity. It never
// fails; storage errors are only logged.
func (s *Session) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, KeyToken, KeyUser); err != nil {
		s.logger.Warn("failed to clear persisted session", zap.Error(err))
	}
	s.state = StateAnonymous
	s.token = ""
	s.user = nil
}

// Token returns the bearer token, or "" when anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current identity.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Role returns the current role, or "" when anonymous.
func (s *Session) Role() models.UserRole {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	return s.State() == StateAuthenticated
}

// TokenExpiry decodes the exp claim of a JWT without verifying it. Opaque
// tokens report false.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
