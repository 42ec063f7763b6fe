// Package auth resolves the caller of a request from the sessions the
// external auth provider keeps in Redis.
package auth

import (
	"context"

	apperrors "livest/internal/common/errors"
)

type Role string

const (
	RoleTenant  Role = "Tenant"
	RoleManager Role = "Manager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleTenant || r == RoleManager
}

// Principal is the authenticated caller. Services receive it explicitly;
// a nil Principal means the request carried no session.
type Principal struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

// RequireRole returns UNAUTHORIZED for a missing principal and FORBIDDEN for
// any role other than role.
func RequireRole(p *Principal, role Role) error {
	if p == nil || p.UserID == "" {
		return apperrors.NewUnauthorizedError("no session")
	}
	if p.Role != role {
		return apperrors.NewForbiddenError("Access Denied")
	}
	return nil
}

// RequireAny only checks that a principal is present.
func RequireAny(p *Principal) error {
	if p == nil || p.UserID == "" {
		return apperrors.NewUnauthorizedError("no session")
	}
	return nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by Middleware, or nil.
func FromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}
