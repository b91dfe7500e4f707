package middleware

import (
	"context"

	"github.com/noah-isme/siakad-cli/internal/session"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

// RequireSession blocks commands until a user is signed in.
func RequireSession(sess *session.Session) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, args []string) error {
			if !sess.Authenticated() || sess.Token() == "" {
				return appErrors.ErrNotAuthenticated
			}
			return next(ctx, args)
		}
	}
}
