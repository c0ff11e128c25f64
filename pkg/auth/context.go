package auth

import (
	"context"
	"errors"
)

type contextKey struct{}

// ErrUnauthenticated is returned when the request context carries no subject.
var ErrUnauthenticated = errors.New("unauthenticated")

// SubjectFromCtx returns the authenticated caller set by RequireAuth.
func SubjectFromCtx(ctx context.Context) (string, error) {
	sub, ok := ctx.Value(contextKey{}).(string)
	if !ok || sub == "" {
		return "", ErrUnauthenticated
	}
	return sub, nil
}

// WithSubject attaches the authenticated caller to ctx.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextKey{}, subject)
}
