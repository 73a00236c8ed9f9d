// Package tenant carries the per-request organization scope that every
// data access must run under. The scope rides on context.Context, so it
// follows the request through goroutines without leaking into unrelated
// work, and nested scopes restore naturally when a derived context goes
// out of use.
package tenant

import (
	"context"
	"errors"
	"fmt"
)

// Scope identifies the organization (and optionally the acting user) a
// unit of work runs for.
type Scope struct {
	OrganizationID string
	UserID         string
}

type ctxKey struct{}

// NewContext returns a context carrying scope. The innermost scope wins
// for code using the derived context; callers holding the parent context
// keep the previous binding.
func NewContext(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, scope)
}

// FromContext returns the nearest enclosing scope, if any.
func FromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(ctxKey{}).(Scope)
	return scope, ok
}

// OrganizationID returns the organization of the nearest enclosing scope.
func OrganizationID(ctx context.Context) (string, bool) {
	scope, ok := FromContext(ctx)
	if !ok {
		return "", false
	}
	return scope.OrganizationID, true
}

// UserID returns the acting user of the nearest enclosing scope, which
// may be empty for system-initiated work.
func UserID(ctx context.Context) (string, bool) {
	scope, ok := FromContext(ctx)
	if !ok || scope.UserID == "" {
		return "", false
	}
	return scope.UserID, true
}

// ViolationError reports a scoped store access attempted with no
// organization scope established. It signals a programming error, not a
// transient condition: the repository never reaches the database when
// returning it.
type ViolationError struct {
	Entity string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("security violation: %q accessed without an organization scope; establish one with tenant.NewContext", e.Entity)
}

// NewViolation builds a ViolationError for the given entity type.
func NewViolation(entity string) error {
	return &ViolationError{Entity: entity}
}

// IsViolation reports whether err is (or wraps) a ViolationError.
func IsViolation(err error) bool {
	var v *ViolationError
	return errors.As(err, &v)
}
