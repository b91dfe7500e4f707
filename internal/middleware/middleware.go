package middleware

import "context"

// HandlerFunc runs one command with its remaining arguments.
type HandlerFunc func(ctx context.Context, args []string) error

// Middleware decorates a HandlerFunc.
type Middleware func(HandlerFunc) HandlerFunc

// Chain wraps h so the first middleware runs outermost.
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
