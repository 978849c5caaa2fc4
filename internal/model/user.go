package model

import "time"

// Role names accepted by the service.  New accounts default to RoleUser;
// RoleAdmin is only ever assigned out of band (there is no privileged
// registration path).
const (
    RoleUser  = "user"
    RoleAdmin = "admin"
)

// ValidRole reports whether the given string is a known role name.
func ValidRole(r string) bool { return r == RoleUser || r == RoleAdmin }

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  The json
// tags are omitted here on purpose: this struct carries the password hash
// and the stored refresh token, neither of which may ever reach a client.
// Handlers serialize a separate sanitized response type instead.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique handle, at least 3 characters.
//  Email        – unique, lowercased email address.
//  PasswordHash – bcrypt hashed password; never serialized.
//  Role         – role name ("user" or "admin").
//  RefreshToken – the single refresh token currently accepted for this
//                 user in token mode, or empty when none is outstanding.
//                 Login and registration overwrite it; logout clears it.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // users.id
    Username     string    // users.username
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    RefreshToken string    // users.refresh_token (empty when NULL)
    CreatedAt    time.Time // users.created_at
}
