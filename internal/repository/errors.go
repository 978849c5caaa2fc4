// Package repository implements the credential store on top of MySQL.  It
// defines sentinel error values that higher layers use to distinguish
// failure scenarios without inspecting driver-specific errors: ErrDuplicate
// maps the unique-key violation raised when a username or email collides,
// and ErrNotFound normalizes the "no rows" case across all lookups.
package repository

import "errors"

// ErrDuplicate is returned when an insert violates the unique constraints
// on username or email.  The repository deliberately does not report which
// of the two columns collided.
var ErrDuplicate = errors.New("duplicate user")

// ErrNotFound is returned when a lookup matches no user row.
var ErrNotFound = errors.New("user not found")
