package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// HeaderKey carries the correlation id on outgoing requests.
const HeaderKey = "X-Request-ID"

type contextKey struct{}

// WithValue pins a request ID on ctx; Transport reuses it instead of minting one.
func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// Value returns the request ID stored in ctx.
func Value(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok {
		return v
	}
	return ""
}

// Transport assigns a request ID to each outgoing HTTP request.
func Transport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get(HeaderKey) != "" {
			return next.RoundTrip(req)
		}
		reqID := Value(req.Context())
		if reqID == "" {
			reqID = uuid.NewString()
		}
		clone := req.Clone(req.Context())
		clone.Header.Set(HeaderKey, reqID)
		return next.RoundTrip(clone)
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
