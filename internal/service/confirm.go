package service

import "context"

// Confirmer asks the operator before a destructive request is sent.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

func confirm(ctx context.Context, c Confirmer, prompt string) (bool, error) {
	if c == nil {
		return false, nil
	}
	return c.Confirm(ctx, prompt)
}
