package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/siakad-cli/internal/service"
	appErrors "github.com/noah-isme/siakad-cli/pkg/errors"
)

// Metrics returns middleware that records command outcomes using the provided service.
func Metrics(metricsSvc *service.MetricsService, command string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, args []string) error {
			if metricsSvc == nil {
				return next(ctx, args)
			}
			start := time.Now()
			err := next(ctx, args)
			metricsSvc.ObserveCommand(command, outcome(err), time.Since(start))
			return err
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return service.OutcomeOK
	case errors.Is(err, appErrors.ErrNotAuthenticated), errors.Is(err, appErrors.ErrSectionHidden):
		return service.OutcomeDenied
	default:
		return service.OutcomeError
	}
}
