// Package authctx carries the authenticated principal supplied by the host
// application through request contexts. Credentials are verified elsewhere.
package authctx

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitebook/pkg/types"
)

const (
	textCodePrincipalMissing  = "PRINCIPAL_CONTEXT_MISSING"
	textCodePrincipalInactive = "PRINCIPAL_INACTIVE"
)

type principalKey struct{}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p types.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the stored principal.
func PrincipalFromContext(ctx context.Context) (types.Principal, bool) {
	if ctx == nil {
		return types.Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(types.Principal)
	if !ok || p.ID == uuid.Nil {
		return types.Principal{}, false
	}
	return p, true
}

// ResolvePrincipal returns the stored principal or an auth error when none is
// present or it has been deactivated.
func ResolvePrincipal(ctx context.Context) (types.Principal, error) {
	p, ok := PrincipalFromContext(ctx)
	if !ok {
		return types.Principal{}, errors.New("go-sitebook: principal not found on request context", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized).
			WithTextCode(textCodePrincipalMissing)
	}
	if !p.Active {
		return types.Principal{}, errors.New("go-sitebook: principal is inactive", errors.CategoryAuthz).
			WithCode(errors.CodeForbidden).
			WithTextCode(textCodePrincipalInactive)
	}
	return p, nil
}
