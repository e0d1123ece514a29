package auth

import (
	"context"

	"moderation/pkg/domain"
)

// key is the context key under which the principal is stored.
type key struct{}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, key{}, p)
}

// FromContext returns the principal attached to the context, or nil for
// anonymous callers.
func FromContext(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(key{}).(*domain.Principal)

	return p
}
