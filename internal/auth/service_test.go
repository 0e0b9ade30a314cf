package auth

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/JongDeug/blog-backend/internal/model"
)

// fakeUsers is an in-memory UserStore honoring the sql.ErrNoRows
// contract for missing rows.
type fakeUsers struct {
	mu   sync.Mutex
	seq  uint64
	rows map[uint64]model.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: map[uint64]model.User{}}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) Create(_ context.Context, name, email, passwordHash string, role model.Role) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.rows[f.seq] = model.User{ID: f.seq, Name: name, Email: email, PasswordHash: passwordHash, Role: role}
	return f.seq, nil
}

func newTestService(t *testing.T) (*Service, *fakeUsers, *SessionStore) {
	t.Helper()
	store, _ := newTestStore(t)
	users := newFakeUsers()
	return NewService(users, store, testCodec(), bcrypt.MinCost), users, store
}

func register(t *testing.T, svc *Service) model.User {
	t.Helper()
	u, err := svc.Register(context.Background(), "n", "a@b.com", "pw")
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	u := register(t, svc)
	require.Equal(t, "a@b.com", u.Email)
	require.Equal(t, model.RoleUser, u.Role)
	require.Empty(t, u.PasswordHash, "profile must not carry the hash")

	_, err := svc.Register(ctx, "n2", "A@B.com ", "other")
	require.ErrorIs(t, err, ErrConflict, "email lookup is normalized")
}

func TestRegister_NoSessionSideEffect(t *testing.T) {
	svc, _, store := newTestService(t)

	u := register(t, svc)
	_, err := store.Get(context.Background(), u.ID)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc)

	_, err := svc.Authenticate(ctx, "missing@b.com", "pw")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Authenticate(ctx, "a@b.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredential)

	u, err := svc.Authenticate(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", u.Email)
}

func TestLogin(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	registered := register(t, svc)

	_, _, err := svc.Login(ctx, "garbage")
	require.ErrorIs(t, err, ErrMalformedCredential)

	_, _, err = svc.Login(ctx, basicHeader("a@b.com", "wrong"))
	require.ErrorIs(t, err, ErrInvalidCredential)
	_, err = store.Get(ctx, registered.ID)
	require.ErrorIs(t, err, ErrNoSession, "failed login must not create a session")

	u, pair, err := svc.Login(ctx, basicHeader("a@b.com", "pw"))
	require.NoError(t, err)
	require.Equal(t, registered.ID, u.ID)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	stored, err := store.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, pair.RefreshToken, stored)
}

func TestRotate_InvalidatesOldToken(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	register(t, svc)

	u, first, err := svc.Login(ctx, basicHeader("a@b.com", "pw"))
	require.NoError(t, err)

	_, second, err := svc.Rotate(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Exactly one session record, equal to the latest refresh token.
	stored, err := store.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, second.RefreshToken, stored)

	// The rotated-away token is single-use: presenting it again fails.
	_, _, err = svc.Rotate(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRotate_RejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc)

	_, pair, err := svc.Login(ctx, basicHeader("a@b.com", "pw"))
	require.NoError(t, err)

	_, _, err = svc.Rotate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRotate_AfterLogout(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc)

	u, pair, err := svc.Login(ctx, basicHeader("a@b.com", "pw"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, u.ID))

	_, _, err = svc.Rotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Contains(t, err.Error(), "no active session")

	// Logout is idempotent.
	require.NoError(t, svc.Logout(ctx, u.ID))
}

func TestRevoke_EndsSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc)

	u, pair, err := svc.Login(ctx, basicHeader("a@b.com", "pw"))
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, u.ID))

	_, _, err = svc.Rotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.NoError(t, svc.Revoke(ctx, u.ID))
}

func TestRotate_SingleLiveSessionAcrossLogins(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	register(t, svc)

	// N sequential logins and rotations leave exactly one record, the
	// most recent refresh token; every earlier token is dead.
	var u model.User
	var latest TokenPair
	earlier := []string{}
	for i := 0; i < 3; i++ {
		var err error
		u, latest, err = svc.Login(ctx, basicHeader("a@b.com", "pw"))
		require.NoError(t, err)
		earlier = append(earlier, latest.RefreshToken)
	}
	for i := 0; i < 3; i++ {
		var err error
		_, latest, err = svc.Rotate(ctx, latest.RefreshToken)
		require.NoError(t, err)
		earlier = append(earlier, latest.RefreshToken)
	}

	stored, err := store.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, latest.RefreshToken, stored)

	for _, old := range earlier[:len(earlier)-1] {
		_, _, err := svc.Rotate(ctx, old)
		require.ErrorIs(t, err, ErrUnauthorized, "superseded token must stay dead")
	}
}

func TestLifecycleScenario(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "n", "a@b.com", "pw")
	require.NoError(t, err)

	_, pair, err := svc.Login(ctx, basicHeader("a@b.com", "pw"))
	require.NoError(t, err)

	_, rotated, err := svc.Rotate(ctx, pair.RefreshToken)
	require.NoError(t, err)

	_, _, err = svc.Rotate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, svc.Logout(ctx, u.ID))

	_, _, err = svc.Rotate(ctx, rotated.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRotate_ExpiredRefreshToken(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	u := register(t, svc)

	// Sign an already-expired refresh token with the same secret and
	// plant it as the live session record, so only the expiry check
	// can reject it.
	expired := NewTokenCodec("access-secret", "refresh-secret", time.Minute, -time.Minute)
	raw, _, err := expired.Sign(u.ID, u.Role, KindRefresh)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, u.ID, raw, time.Hour))

	_, _, err = svc.Rotate(ctx, raw)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.True(t, strings.Contains(err.Error(), "expired"))
}
