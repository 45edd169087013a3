package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"

	"github.com/hay-kot/skillshop/internal/core/persist"
	"github.com/hay-kot/skillshop/internal/core/storage"
)

// API paths used by the store.
const (
	PathLogin    = "/auth/login"
	PathRegister = "/auth/register"
)

// ErrInvalidAuthResponse is returned when a successful auth response lacks a token
// or user.
var ErrInvalidAuthResponse = errors.New("auth response missing token or user")

// Poster sends a JSON body and decodes the JSON response.
type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

// TokenSink receives the session token whenever it changes. An empty token means
// the session ended.
type TokenSink interface {
	SetAuthToken(token string)
}

// Store is the single source of truth for who is logged in.
type Store struct {
	storage storage.Store
	api     Poster
	sink    TokenSink
	log     zerolog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	token string
	user  *User

	restoreOnce sync.Once
	restored    chan struct{}
}

// New creates a Store. The store starts in the loading state until Restore runs.
func New(store storage.Store, api Poster, sink TokenSink, log zerolog.Logger) *Store {
	return &Store{
		storage:  store,
		api:      api,
		sink:     sink,
		log:      log,
		now:      time.Now,
		restored: make(chan struct{}),
	}
}

// Restore loads a persisted session. A token and user that both decode are
// adopted and the token is handed to the sink; anything else leaves the session
// unauthenticated. Restore never fails and only does work on its first call.
func (s *Store) Restore(ctx context.Context) {
	s.restoreOnce.Do(func() {
		defer close(s.restored)

		token, user, ok := s.readPersisted(ctx)
		if !ok {
			return
		}

		s.mu.Lock()
		s.token = token
		s.user = &user
		s.mu.Unlock()

		s.sink.SetAuthToken(token)
		s.log.Debug().Str("user_id", user.ID.String()).Msg("session restored")
	})
}

// readPersisted returns the stored token and user when both are present and valid.
// Partial or stale pairs are removed from storage.
func (s *Store) readPersisted(ctx context.Context) (string, User, bool) {
	token, tokenOK := s.readToken(ctx)
	user, userOK := s.readUser(ctx)

	switch {
	case !tokenOK && !userOK:
		return "", User{}, false
	case !tokenOK || !userOK:
		s.log.Warn().Bool("token", tokenOK).Bool("user", userOK).Msg("discarding incomplete persisted session")
		s.erase(ctx)
		return "", User{}, false
	case tokenExpired(token, s.now()):
		s.log.Info().Msg("persisted session token has expired")
		s.erase(ctx)
		return "", User{}, false
	}

	return token, user, true
}

func (s *Store) readToken(ctx context.Context) (string, bool) {
	entry, err := s.storage.Get(ctx, storage.KeyToken)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.log.Warn().Err(err).Msg("read persisted token")
		}
		return "", false
	}

	token := strings.TrimSpace(entry.Value)
	return token, token != ""
}

func (s *Store) readUser(ctx context.Context) (User, bool) {
	entry, err := s.storage.Get(ctx, storage.KeyUser)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.log.Warn().Err(err).Msg("read persisted user")
		}
		return User{}, false
	}

	user, err := persist.Decode(entry.Value, User.validate)
	if err != nil {
		s.log.Warn().Err(err).Msg("decode persisted user")
		return User{}, false
	}
	return user, true
}

// tokenExpired reports whether token is a JWT whose exp claim is in the past.
// Opaque tokens never expire client side.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	if _, ok := claims["exp"]; !ok {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), true)
}

// Done is closed once Restore has completed.
func (s *Store) Done() <-chan struct{} {
	return s.restored
}

// Loading reports whether the initial restore is still pending.
func (s *Store) Loading() bool {
	select {
	case <-s.restored:
		return false
	default:
		return true
	}
}

// Login exchanges credentials for a session. Errors from the API are returned
// unchanged and leave the current session untouched.
func (s *Store) Login(ctx context.Context, creds Credentials) error {
	var resp AuthResponse
	if err := s.api.Post(ctx, PathLogin, creds, &resp); err != nil {
		return err
	}
	return s.begin(ctx, resp)
}

// Register creates an account. The response carries a usable session, so a
// successful registration is also a login.
func (s *Store) Register(ctx context.Context, reg Registration) error {
	var resp AuthResponse
	if err := s.api.Post(ctx, PathRegister, reg, &resp); err != nil {
		return err
	}
	return s.begin(ctx, resp)
}

// begin commits token and user together, persists both and notifies the sink.
func (s *Store) begin(ctx context.Context, resp AuthResponse) error {
	token := strings.TrimSpace(resp.Token)
	if token == "" || resp.User == nil {
		return ErrInvalidAuthResponse
	}
	if err := resp.User.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAuthResponse, err)
	}

	user := *resp.User

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	s.persist(ctx, token, user)
	s.sink.SetAuthToken(token)

	s.log.Info().Str("user_id", user.ID.String()).Bool("admin", user.IsAdmin).Msg("signed in")
	return nil
}

// persist writes the session to storage. Failures are logged; the in-memory
// session stays authoritative.
func (s *Store) persist(ctx context.Context, token string, user User) {
	if err := s.storage.Set(ctx, storage.KeyToken, token); err != nil {
		s.log.Warn().Err(err).Msg("persist token")
	}

	raw, err := persist.Encode(user)
	if err != nil {
		s.log.Warn().Err(err).Msg("encode user")
		return
	}
	if err := s.storage.Set(ctx, storage.KeyUser, raw); err != nil {
		s.log.Warn().Err(err).Msg("persist user")
	}
}

// Logout ends the session, removes the persisted copies and detaches the token
// from outbound requests.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	s.erase(ctx)
	s.sink.SetAuthToken("")

	s.log.Info().Msg("signed out")
}

func (s *Store) erase(ctx context.Context) {
	for _, key := range []string{storage.KeyToken, storage.KeyUser} {
		if err := storage.Remove(ctx, s.storage, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("remove persisted session")
		}
	}
}

// Token returns the access token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed in user.
func (s *Store) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether both a token and a user are present.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// IsAdmin reports whether the signed in user is an administrator.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}
