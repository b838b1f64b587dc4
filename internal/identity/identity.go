// Package identity defines caller identities and the shared authorization predicate.
//
// Identities reach the core already authenticated; authorization is a pure
// equality comparison against the identity stored on a record. No role
// hierarchy exists.
package identity

import (
	"strings"

	apperrors "github.com/medinex-ai/registry/internal/errors"
)

var (
	// ErrUnauthorized indicates the caller is not the required identity.
	ErrUnauthorized = apperrors.New(apperrors.CodeUnauthorizedAccess, "caller is not the record authority")
	// ErrCallerMissing indicates no caller identity was supplied.
	ErrCallerMissing = apperrors.New(apperrors.CodeCallerMissing, "caller identity is required")
)

// ID is an authenticated identity address.
type ID string

// IsZero reports whether the identity is empty.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Authorize verifies the caller equals the required identity.
func Authorize(required, caller ID) error {
	if caller.IsZero() {
		return ErrCallerMissing
	}
	if caller != required {
		return ErrUnauthorized
	}
	return nil
}
