// Package token issues and verifies the two classes of signed credentials
// used by the service: short-lived access tokens carrying a role claim, and
// longer-lived refresh tokens carrying only the subject.  Each class is
// signed with its own secret, so a refresh token can never pass access-token
// verification and vice versa.
package token

import (
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// ErrInvalid is returned for tokens with a bad signature, wrong signing
// method, or malformed structure.
var ErrInvalid = errors.New("invalid token")

// ErrExpired is returned for tokens that are structurally valid and
// correctly signed but past their expiry.  Callers may report it to clients
// identically to ErrInvalid, but the two are kept apart internally.
var ErrExpired = errors.New("expired token")

// AccessToken is a signed JWT access token along with its expiry.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// RefreshToken is a signed JWT refresh token along with its expiry.  The
// raw string is also persisted onto the user record, which is what makes
// the token revocable despite its self-contained signature.
type RefreshToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims is the decoded content of a verified access token.
type Claims struct {
    UserID uint64
    Role   string
}

type accessClaims struct {
    Role string `json:"role"`
    jwt.RegisteredClaims
}

type refreshClaims struct {
    jwt.RegisteredClaims
}

// NewAccessToken builds and signs an HS256 access token for a user.  The
// JWT embeds the subject (user ID), the role, issued-at and expiry claims.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := &accessClaims{
        Role: role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 refresh token.  Unlike access
// tokens it carries no role claim; the role is re-read from the store when
// a new access token is minted.
func NewRefreshToken(secret string, userID uint64, ttlDays int) (RefreshToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := &refreshClaims{
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(exp),
        },
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{Token: signed, Exp: exp}, nil
}

// VerifyAccess parses and validates an access token and returns its decoded
// claims.  Expired tokens fail with ErrExpired, everything else with
// ErrInvalid.
func VerifyAccess(secret, raw string) (Claims, error) {
    var ac accessClaims
    if err := parse(secret, raw, &ac); err != nil {
        return Claims{}, err
    }
    uid, err := strconv.ParseUint(ac.Subject, 10, 64)
    if err != nil {
        return Claims{}, ErrInvalid
    }
    return Claims{UserID: uid, Role: ac.Role}, nil
}

// VerifyRefresh parses and validates a refresh token and returns the
// subject user ID.  Signature and expiry checks only; the caller must still
// compare the raw value against the one stored for that user.
func VerifyRefresh(secret, raw string) (uint64, error) {
    var rc refreshClaims
    if err := parse(secret, raw, &rc); err != nil {
        return 0, err
    }
    uid, err := strconv.ParseUint(rc.Subject, 10, 64)
    if err != nil {
        return 0, ErrInvalid
    }
    return uid, nil
}

func parse(secret, raw string, claims jwt.Claims) error {
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        // Pin the signing method so a token signed with a different
        // algorithm is rejected outright.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return ErrExpired
        }
        return ErrInvalid
    }
    if !tok.Valid {
        return ErrInvalid
    }
    return nil
}
