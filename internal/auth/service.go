package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/session"
	"github.com/iliyamo/auth-service/internal/token"
	"github.com/iliyamo/auth-service/internal/utils"
)

// UserStore is the credential store the service depends on.  It is
// implemented by repository.UserRepo; tests substitute an in-memory fake.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	SetRefreshToken(ctx context.Context, userID uint64, tok string) error
	GetByIDAndRefreshToken(ctx context.Context, id uint64, tok string) (model.User, error)
	ClearRefreshToken(ctx context.Context, tok string) error
	ListAll(ctx context.Context) ([]model.User, error)
}

// SessionStore is the session manager interface, satisfied by
// session.Store.
type SessionStore interface {
	Create(ctx context.Context, d session.Data) (string, error)
	Get(ctx context.Context, id string) (session.Data, bool, error)
	Destroy(ctx context.Context, id string) error
}

// Service is the authentication core.  Registration and credential checks
// are shared between the two strategies; they diverge only at the
// establish-identity step (EstablishSession vs IssueTokens) and at the
// corresponding guards.
type Service struct {
	cfg      config.Config
	users    UserStore
	sessions SessionStore
}

func NewService(cfg config.Config, users UserStore, sessions SessionStore) *Service {
	return &Service{cfg: cfg, users: users, sessions: sessions}
}

// Register validates the input, rejects duplicate identities and creates
// the user.  The password is hashed before any persistence call; a
// plaintext secret never reaches the store.  Used by both strategies.
func (s *Service) Register(ctx context.Context, username, email, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = utils.NormalizeEmail(email)

	if len(username) < 3 {
		return model.User{}, fmt.Errorf("%w: username must be at least 3 characters", ErrValidation)
	}
	if len(password) < 6 {
		return model.User{}, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	if !utils.ValidEmail(email) {
		return model.User{}, fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return model.User{}, fmt.Errorf("check duplicates: %w", err)
	}
	if exists {
		return model.User{}, ErrDuplicateIdentity
	}

	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, &u); err != nil {
		// Two registrations can race past the duplicate check; the unique
		// keys report the loser here.
		if errors.Is(err, repository.ErrDuplicate) {
			return model.User{}, ErrDuplicateIdentity
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login verifies credentials by email.  An unknown email and a wrong
// password produce the identical ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (model.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return model.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// EstablishSession creates a server-side session for the user and returns
// its opaque identifier.  Session-mode identity step.
func (s *Service) EstablishSession(ctx context.Context, u model.User) (string, error) {
	id, err := s.sessions.Create(ctx, session.Data{UserID: u.ID, Role: u.Role})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return id, nil
}

// DestroySession removes the session synchronously.  A store failure is
// surfaced so the handler can report a server error; the cookie is cleared
// by the handler regardless.
func (s *Service) DestroySession(ctx context.Context, id string) error {
	if err := s.sessions.Destroy(ctx, id); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// IssueTokens mints an access/refresh token pair for the user and persists
// the refresh token onto the user record before returning.  Overwriting the
// stored value implicitly revokes any previously issued refresh token, and
// the write completing before the response is what keeps a racing refresh
// with a stale token from succeeding.  Token-mode identity step.
func (s *Service) IssueTokens(ctx context.Context, u model.User) (token.AccessToken, token.RefreshToken, error) {
	access, err := token.NewAccessToken(s.cfg.AccessSecret, u.ID, u.Role, s.cfg.AccessTTLMin)
	if err != nil {
		return token.AccessToken{}, token.RefreshToken{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := token.NewRefreshToken(s.cfg.RefreshSecret, u.ID, s.cfg.RefreshTTLDays)
	if err != nil {
		return token.AccessToken{}, token.RefreshToken{}, fmt.Errorf("issue refresh token: %w", err)
	}
	if err := s.users.SetRefreshToken(ctx, u.ID, refresh.Token); err != nil {
		return token.AccessToken{}, token.RefreshToken{}, fmt.Errorf("store refresh token: %w", err)
	}
	return access, refresh, nil
}

// Refresh exchanges a refresh token for a new access token.  The token
// must verify (signature and expiry) AND equal the value currently stored
// for its subject; either failure yields a taxonomy error.  The refresh
// token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, raw string) (token.AccessToken, error) {
	if raw == "" {
		return token.AccessToken{}, ErrMissingToken
	}
	uid, err := token.VerifyRefresh(s.cfg.RefreshSecret, raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return token.AccessToken{}, ErrExpiredToken
		}
		return token.AccessToken{}, ErrInvalidToken
	}

	u, err := s.users.GetByIDAndRefreshToken(ctx, uid, raw)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Validly signed, but superseded by a newer login or cleared
			// by logout.
			return token.AccessToken{}, ErrInvalidToken
		}
		return token.AccessToken{}, fmt.Errorf("lookup refresh token: %w", err)
	}

	access, err := token.NewAccessToken(s.cfg.AccessSecret, u.ID, u.Role, s.cfg.AccessTTLMin)
	if err != nil {
		return token.AccessToken{}, fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// RevokeRefresh clears the stored refresh token matching the presented
// value.  No match is a no-op: token-mode logout is idempotent.
func (s *Service) RevokeRefresh(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	if err := s.users.ClearRefreshToken(ctx, raw); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// Profile loads the user behind an already-resolved identity.  A stale
// identity (user deleted since authentication) yields ErrNotFound.
func (s *Service) Profile(ctx context.Context, userID uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// ListUsers returns all users.  Exposed only behind the admin role guard.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
