// Package access decides which callers may see which resources.
package access

import (
	"slices"

	"estate/internal/domain"
)

// Allows reports whether scope is one of the allowed scopes.
func Allows(scope string, allowed []string) bool {
	return slices.Contains(allowed, scope)
}

// Policy checks documents against a caller's scope. The zero value is ready
// to use.
type Policy struct{}

// Check reports whether a caller in scope may see doc. Documents that do not
// implement domain.AccessControlled are public.
func (Policy) Check(scope string, doc any) bool {
	controlled, ok := doc.(domain.AccessControlled)
	if !ok {
		return true
	}
	descriptor := controlled.AccessDescriptor()
	if descriptor == nil {
		return false
	}
	return Allows(scope, descriptor.Companies)
}
