// Package authz carries the authenticated caller through request context
// and applies role capability checks.
package authz

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Role is the numeric account role from the roles table.
type Role int64

const (
	RoleAdmin     Role = 1
	RoleModerator Role = 2
	RoleUser      Role = 3
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleModerator || r == RoleUser
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleModerator:
		return "moderator"
	case RoleUser:
		return "user"
	}
	return "unknown"
}

// Caller is the already-verified identity resolved by the auth
// middleware. Handlers trust ID and Role as-is.
type Caller struct {
	ID   int64
	Role Role
}

type callerContextKey struct{}

func ContextWithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

// CallerFromContext retrieves the Caller stored in ctx. It returns nil if
// ctx is nil, if no caller is stored, or if the stored value has a
// different type.
func CallerFromContext(ctx context.Context) *Caller {
	if ctx == nil {
		return nil
	}
	caller, ok := ctx.Value(callerContextKey{}).(*Caller)
	if !ok {
		return nil
	}
	return caller
}

// RequireAuthenticated returns the caller or ErrUnauthenticated.
func RequireAuthenticated(ctx context.Context) (*Caller, error) {
	caller := CallerFromContext(ctx)
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	return caller, nil
}

// RequireAdmin permits only admin callers.
func RequireAdmin(ctx context.Context) (*Caller, error) {
	caller, err := RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if caller.Role != RoleAdmin {
		return nil, ErrForbidden
	}
	return caller, nil
}

// RequireModerator permits admin and moderator callers.
func RequireModerator(ctx context.Context) (*Caller, error) {
	caller, err := RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}
	if caller.Role != RoleAdmin && caller.Role != RoleModerator {
		return nil, ErrForbidden
	}
	return caller, nil
}

// CanModerate reports whether the role may issue warnings.
func CanModerate(role Role) bool {
	return role == RoleAdmin || role == RoleModerator
}
