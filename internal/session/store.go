// Package session implements the server-side session manager: a Redis
// store keyed by an opaque identifier, fronted by an HMAC-signed http-only
// cookie.  A session identifier unknown to the store is treated as
// unauthenticated, never as an error.
package session

import (
    "context"
    "encoding/json"
    "time"

    "github.com/google/uuid"
    "github.com/redis/go-redis/v9"
)

// TTL is the fixed lifetime of a session.  Sessions are not refreshed on
// access; they expire 24 hours after creation unless destroyed earlier.
const TTL = 24 * time.Hour

const keyPrefix = "sess:"

// Data is the authenticated identity a session maps to.
type Data struct {
    UserID uint64 `json:"user_id"`
    Role   string `json:"role"`
}

// Store persists sessions in Redis.  Every operation touches a single key,
// so create, read and destroy are atomic per session identifier.
type Store struct {
    rdb *redis.Client
    ttl time.Duration
}

// NewStore returns a Store with the default TTL.
func NewStore(rdb *redis.Client) *Store {
    return &Store{rdb: rdb, ttl: TTL}
}

// Create stores the identity under a fresh opaque identifier and returns
// that identifier.  The caller wraps it in a signed cookie.
func (s *Store) Create(ctx context.Context, d Data) (string, error) {
    id := uuid.NewString()
    body, err := json.Marshal(d)
    if err != nil {
        return "", err
    }
    if err := s.rdb.Set(ctx, keyPrefix+id, body, s.ttl).Err(); err != nil {
        return "", err
    }
    return id, nil
}

// Get looks up a session by identifier.  The second return value reports
// whether the session exists; an unknown or expired identifier yields
// (zero, false, nil).
func (s *Store) Get(ctx context.Context, id string) (Data, bool, error) {
    raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
    if err == redis.Nil {
        return Data{}, false, nil
    }
    if err != nil {
        return Data{}, false, err
    }
    var d Data
    if err := json.Unmarshal(raw, &d); err != nil {
        // A corrupt blob cannot authenticate anyone.
        return Data{}, false, nil
    }
    return d, true, nil
}

// Destroy removes a session.  The delete is synchronous: when Destroy
// returns nil the identifier can no longer authenticate.  Deleting an
// already-absent session is not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
    return s.rdb.Del(ctx, keyPrefix+id).Err()
}
