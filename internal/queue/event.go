// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into an audit trail.
package queue

// Event names published on the auth.events queue.
const (
    EventRegistered = "user.registered"
    EventLoggedIn   = "user.logged_in"
    EventLoggedOut  = "user.logged_out"
)

// AuthEvent is published whenever an identity is established or torn down.
// It carries enough information for downstream consumers to log, notify,
// or feed analytics without querying the primary database.  Mode records
// which credential strategy the client used ("session" or "jwt").
type AuthEvent struct {
    Event      string `json:"event"`
    UserID     uint64 `json:"user_id"`
    Username   string `json:"username,omitempty"`
    Email      string `json:"email,omitempty"`
    Mode       string `json:"mode"`
    OccurredAt string `json:"occurred_at"`
}
