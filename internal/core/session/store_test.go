package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/skillshop/internal/core/storage"
)

// fakeAPI answers Post with a canned body or error and records requests.
type fakeAPI struct {
	responses map[string]string
	err       error
	calls     []string
	bodies    []any
}

func (f *fakeAPI) Post(_ context.Context, path string, body, out any) error {
	f.calls = append(f.calls, path)
	f.bodies = append(f.bodies, body)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.responses[path]), out)
}

// recordingSink captures every token pushed by the store.
type recordingSink struct {
	tokens []string
}

func (r *recordingSink) SetAuthToken(token string) {
	r.tokens = append(r.tokens, token)
}

func (r *recordingSink) current() string {
	if len(r.tokens) == 0 {
		return ""
	}
	return r.tokens[len(r.tokens)-1]
}

type fixture struct {
	store   *Store
	storage *storage.MemoryStore
	api     *fakeAPI
	sink    *recordingSink
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	mem := storage.NewMemoryStore()
	api := &fakeAPI{responses: map[string]string{
		PathLogin:    `{"token":"t1","user":{"id":1,"firstName":"Ada","isAdmin":false}}`,
		PathRegister: `{"token":"t2","user":{"id":"u-2","firstName":"Grace","isAdmin":true}}`,
	}}
	sink := &recordingSink{}
	return fixture{
		store:   New(mem, api, sink, zerolog.New(io.Discard)),
		storage: mem,
		api:     api,
		sink:    sink,
	}
}

func storedValue(t *testing.T, s storage.Store, key string) (string, bool) {
	t.Helper()
	e, err := s.Get(context.Background(), key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", false
	}
	require.NoError(t, err)
	return e.Value, true
}

func TestStore_LoginThenLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Restore(ctx)

	err := f.store.Login(ctx, Credentials{Identifier: "a@b.com", Password: "x"})
	require.NoError(t, err)

	assert.True(t, f.store.IsAuthenticated())
	assert.False(t, f.store.IsAdmin())
	assert.Equal(t, "t1", f.store.Token())
	assert.Equal(t, "t1", f.sink.current())
	assert.Equal(t, []string{PathLogin}, f.api.calls)
	assert.Equal(t, Credentials{Identifier: "a@b.com", Password: "x"}, f.api.bodies[0])

	user, ok := f.store.User()
	require.True(t, ok)
	assert.Equal(t, "1", user.ID.String())
	assert.Equal(t, "Ada", user.FirstName)

	token, ok := storedValue(t, f.storage, storage.KeyToken)
	assert.True(t, ok)
	assert.Equal(t, "t1", token)
	_, ok = storedValue(t, f.storage, storage.KeyUser)
	assert.True(t, ok)

	f.store.Logout(ctx)

	assert.False(t, f.store.IsAuthenticated())
	assert.False(t, f.store.IsAdmin())
	assert.Empty(t, f.store.Token())
	assert.Empty(t, f.sink.current())

	_, ok = storedValue(t, f.storage, storage.KeyToken)
	assert.False(t, ok)
	_, ok = storedValue(t, f.storage, storage.KeyUser)
	assert.False(t, ok)
}

func TestStore_RegisterIsLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.store.Register(ctx, Registration{FirstName: "Grace", Email: "g@h.io", Password: "secret1"})
	require.NoError(t, err)

	assert.True(t, f.store.IsAuthenticated())
	assert.True(t, f.store.IsAdmin())
	assert.Equal(t, "t2", f.sink.current())
	assert.Equal(t, []string{PathRegister}, f.api.calls)
}

func TestStore_LoginFailureKeepsPriorState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Login(ctx, Credentials{Identifier: "a@b.com", Password: "x"}))

	apiErr := errors.New("401 invalid credentials")
	f.api.err = apiErr

	err := f.store.Login(ctx, Credentials{Identifier: "other@b.com", Password: "bad"})
	assert.Same(t, apiErr, err, "error must propagate unchanged")

	assert.True(t, f.store.IsAuthenticated())
	assert.Equal(t, "t1", f.store.Token())
	assert.Equal(t, []string{"t1"}, f.sink.tokens)
}

func TestStore_LoginFailureFromEmptyState(t *testing.T) {
	f := newFixture(t)
	f.api.err = errors.New("network down")

	err := f.store.Login(context.Background(), Credentials{Identifier: "a@b.com", Password: "x"})
	require.Error(t, err)

	assert.False(t, f.store.IsAuthenticated())
	assert.Empty(t, f.sink.tokens)
	_, ok := storedValue(t, f.storage, storage.KeyToken)
	assert.False(t, ok)
}

func TestStore_IncompleteAuthResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing token", body: `{"user":{"id":1}}`},
		{name: "missing user", body: `{"token":"t1"}`},
		{name: "user without id", body: `{"token":"t1","user":{"firstName":"A"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.api.responses[PathLogin] = tt.body

			err := f.store.Login(context.Background(), Credentials{Identifier: "a", Password: "b"})
			require.ErrorIs(t, err, ErrInvalidAuthResponse)
			assert.False(t, f.store.IsAuthenticated())
			assert.Empty(t, f.sink.tokens)
		})
	}
}

func TestStore_StorageFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.storage.FailSet = errors.New("disk full")

	err := f.store.Login(context.Background(), Credentials{Identifier: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.True(t, f.store.IsAuthenticated())
	assert.Equal(t, "t1", f.sink.current())
}

func TestStore_RestoreRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Login(ctx, Credentials{Identifier: "a@b.com", Password: "x"}))
	original, _ := f.store.User()

	sink := &recordingSink{}
	restored := New(f.storage, f.api, sink, zerolog.New(io.Discard))
	assert.True(t, restored.Loading())

	restored.Restore(ctx)

	assert.False(t, restored.Loading())
	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, f.store.IsAdmin(), restored.IsAdmin())
	assert.Equal(t, f.store.Token(), restored.Token())
	user, _ := restored.User()
	assert.Equal(t, original, user)
	assert.Equal(t, []string{"t1"}, sink.tokens)
}

func TestStore_RestoreRunsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.store.Restore(ctx)
	select {
	case <-f.store.Done():
	default:
		t.Fatal("Done should be closed after Restore")
	}

	require.NoError(t, f.storage.Set(ctx, storage.KeyToken, "late"))
	require.NoError(t, f.storage.Set(ctx, storage.KeyUser, `{"v":1,"data":{"id":9}}`))
	f.store.Restore(ctx)

	assert.False(t, f.store.IsAuthenticated(), "second Restore must be a no-op")
}

func TestStore_RestoreTreatsBadStateAsAbsent(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		user      string
		wantClean bool
	}{
		{name: "nothing stored"},
		{name: "token only", token: "t1", wantClean: true},
		{name: "user only", user: `{"v":1,"data":{"id":1}}`, wantClean: true},
		{name: "malformed user", token: "t1", user: `{"v":1,"data":`, wantClean: true},
		{name: "user without id", token: "t1", user: `{"v":1,"data":{"firstName":"A"}}`, wantClean: true},
		{name: "unknown version", token: "t1", user: `{"v":3,"data":{"id":1}}`, wantClean: true},
		{name: "blank token", token: "   ", user: `{"v":1,"data":{"id":1}}`, wantClean: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			if tt.token != "" {
				require.NoError(t, f.storage.Set(ctx, storage.KeyToken, tt.token))
			}
			if tt.user != "" {
				require.NoError(t, f.storage.Set(ctx, storage.KeyUser, tt.user))
			}

			f.store.Restore(ctx)

			assert.False(t, f.store.Loading())
			assert.False(t, f.store.IsAuthenticated())
			assert.Empty(t, f.sink.tokens)

			if tt.wantClean {
				entries, err := f.storage.List(ctx, "")
				require.NoError(t, err)
				assert.Empty(t, entries)
			}
		})
	}
}

func TestStore_RestoreAcceptsLegacyUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.storage.Set(ctx, storage.KeyToken, "t1"))
	require.NoError(t, f.storage.Set(ctx, storage.KeyUser, `{"id":1,"firstName":"Ada","isAdmin":true}`))

	f.store.Restore(ctx)

	assert.True(t, f.store.IsAuthenticated())
	assert.True(t, f.store.IsAdmin())
}

func TestStore_RestoreDropsExpiredJWT(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.store.now = func() time.Time { return now }

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": now.Add(-time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	require.NoError(t, f.storage.Set(ctx, storage.KeyToken, expired))
	require.NoError(t, f.storage.Set(ctx, storage.KeyUser, `{"v":1,"data":{"id":1}}`))

	f.store.Restore(ctx)

	assert.False(t, f.store.IsAuthenticated())
	_, ok := storedValue(t, f.storage, storage.KeyToken)
	assert.False(t, ok)
}

func TestStore_RestoreKeepsLiveJWT(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f.store.now = func() time.Time { return now }

	live, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	require.NoError(t, f.storage.Set(ctx, storage.KeyToken, live))
	require.NoError(t, f.storage.Set(ctx, storage.KeyUser, `{"v":1,"data":{"id":1}}`))

	f.store.Restore(ctx)

	assert.True(t, f.store.IsAuthenticated())
	assert.Equal(t, live, f.sink.current())
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{ID: "1", FirstName: "Ada", LastName: "Lovelace"}.DisplayName())
	assert.Equal(t, "a@b.com", User{ID: "1", Email: "a@b.com"}.DisplayName())
	assert.Equal(t, "user 7", User{ID: "7"}.DisplayName())
	assert.Equal(t, "admin", User{IsAdmin: true}.Role())
}
