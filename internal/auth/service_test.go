package auth

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/model"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/session"
	"github.com/iliyamo/auth-service/internal/token"
)

// memUsers is an in-memory UserStore with the same contract as the MySQL
// repository: unique username/email, sentinel errors from the repository
// package.
type memUsers struct {
	mu   sync.Mutex
	seq  uint64
	byID map[uint64]model.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[uint64]model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	m.seq++
	u.ID = m.seq
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) SetRefreshToken(_ context.Context, userID uint64, tok string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = tok
	m.byID[userID] = u
	return nil
}

func (m *memUsers) GetByIDAndRefreshToken(_ context.Context, id uint64, tok string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok && u.RefreshToken != "" && u.RefreshToken == tok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) ClearRefreshToken(_ context.Context, tok string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.byID {
		if u.RefreshToken == tok {
			u.RefreshToken = ""
			m.byID[id] = u
		}
	}
	return nil
}

func (m *memUsers) ListAll(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

// memSessions is an in-memory SessionStore.
type memSessions struct {
	mu   sync.Mutex
	seq  int
	data map[string]session.Data
}

func newMemSessions() *memSessions { return &memSessions{data: map[string]session.Data{}} }

func (m *memSessions) Create(_ context.Context, d session.Data) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := strings.Repeat("s", m.seq) // distinct, deterministic ids
	m.data[id] = d
	return id, nil
}

func (m *memSessions) Get(_ context.Context, id string) (session.Data, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[id]
	return d, ok, nil
}

func (m *memSessions) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Env:            "test",
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		SessionSecret:  "session-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     bcrypt.MinCost,
	}
}

func newTestService() (*Service, *memUsers, *memSessions) {
	users := newMemUsers()
	sessions := newMemSessions()
	return NewService(testConfig(), users, sessions), users, sessions
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"short username", "al", "a@x.com", "secret1"},
		{"short password", "alice", "a@x.com", "12345"},
		{"bad email", "alice", "not-an-email", "secret1"},
		{"empty everything", "", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegister_HashesPasswordBeforePersisting(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)

	stored, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegister_DuplicateEmailDifferentHandle(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob", "a@x.com", "secret1")
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	// Same handle, different email collides too.
	_, err = svc.Register(ctx, "alice", "b@x.com", "secret1")
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestRegister_EmailIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "Alice@X.com", "secret1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob", "alice@x.com", "secret1")
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, "nobody@x.com", "secret1")
	_, errWrongPw := svc.Login(ctx, "a@x.com", "wrong-password")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLogin_Success(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	u, err := svc.Login(ctx, "A@X.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
}

func TestSessions_EstablishAndDestroy(t *testing.T) {
	svc, _, sessions := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	sid, err := svc.EstablishSession(ctx, u)
	require.NoError(t, err)

	d, ok, err := sessions.Get(ctx, sid)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, u.ID, d.UserID)
	assert.Equal(t, u.Role, d.Role)

	require.NoError(t, svc.DestroySession(ctx, sid))
	_, ok, err = sessions.Get(ctx, sid)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRefresh_RoundTrip(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, refresh, err := svc.IssueTokens(ctx, u)
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, refresh.Token)
	require.NoError(t, err)

	claims, err := token.VerifyAccess(testConfig().AccessSecret, access.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Role, claims.Role)
}

func TestRefresh_MissingAndGarbageTokens(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = svc.Refresh(ctx, "garbage.token.value")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_SecondLoginRevokesFirstToken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, first, err := svc.IssueTokens(ctx, u)
	require.NoError(t, err)
	_, second, err := svc.IssueTokens(ctx, u)
	require.NoError(t, err)

	// First token still carries a valid signature and is unexpired, but
	// its stored counterpart was overwritten by the second issue.
	_, err = svc.Refresh(ctx, first.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Refresh(ctx, second.Token)
	assert.NoError(t, err)
}

func TestRefresh_LogoutRevokesToken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, refresh, err := svc.IssueTokens(ctx, u)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeRefresh(ctx, refresh.Token))

	_, err = svc.Refresh(ctx, refresh.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Revoking again is a no-op, not an error.
	assert.NoError(t, svc.RevokeRefresh(ctx, refresh.Token))
}

func TestRefresh_ExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshTTLDays = -1 // issue already-expired refresh tokens
	users := newMemUsers()
	svc := NewService(cfg, users, newMemSessions())
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	require.NoError(t, err)

	_, refresh, err := svc.IssueTokens(ctx, u)
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, refresh.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestProfile_StaleIdentity(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Profile(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}
