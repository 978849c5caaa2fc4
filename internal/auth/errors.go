// Package auth contains the authentication core: the service that
// orchestrates registration, login, logout, profile retrieval and token
// refresh for both credential strategies (server-side sessions and signed
// token pairs).  The error values below form the taxonomy that handlers
// translate into HTTP status codes.
package auth

import "errors"

// ErrValidation covers malformed input: short usernames or passwords and
// invalid email shapes.  Wrapped errors carry the specific message.
var ErrValidation = errors.New("validation failed")

// ErrDuplicateIdentity is returned when a registration collides with an
// existing username or email.  Which field collided is deliberately not
// revealed.
var ErrDuplicateIdentity = errors.New("username or email already in use")

// ErrInvalidCredentials is returned on login when the email is unknown or
// the password does not verify.  The two cases are indistinguishable to
// prevent account enumeration.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrMissingToken is returned by the refresh flow when no refresh token
// cookie was presented.
var ErrMissingToken = errors.New("refresh token missing")

// ErrInvalidToken is returned when a refresh token fails signature checks
// or does not match the value currently stored for its subject.  The
// stored-value mismatch is the revocation mechanism: a newer login or a
// logout makes every earlier token fail here.
var ErrInvalidToken = errors.New("refresh token invalid")

// ErrExpiredToken is returned for a correctly signed but expired refresh
// token.  Clients see the same response as ErrInvalidToken; the split
// exists for logging.
var ErrExpiredToken = errors.New("refresh token expired")

// ErrNotFound is returned when a referenced user no longer exists, e.g. a
// profile request through a session whose user was deleted.
var ErrNotFound = errors.New("user not found")
