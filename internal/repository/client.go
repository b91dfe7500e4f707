package repository

import "context"

// apiClient is the subset of apiclient.Client the repositories rely on.
type apiClient interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, out interface{}) error
}
