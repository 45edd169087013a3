// Package marketplace orchestrates the session store, the cart store and the API
// client into the operations the CLI exposes.
package marketplace

import (
	"context"
	"errors"
	"io"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/skillshop/internal/core/cart"
	"github.com/hay-kot/skillshop/internal/core/config"
	"github.com/hay-kot/skillshop/internal/core/session"
	"github.com/hay-kot/skillshop/pkg/executil"
)

var (
	// ErrNotAuthenticated is returned by operations that need a logged in user.
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrNotAdmin is returned by admin operations for non-admin users.
	ErrNotAdmin = errors.New("admin access required")
	// ErrEmptyCart is returned when checking out an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// API is the subset of the HTTP client the service uses.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
	Upload(ctx context.Context, path, field, filename string, r io.Reader, out any) error
}

// Service orchestrates marketplace operations.
type Service struct {
	session    *session.Store
	cart       *cart.Store
	api        API
	config     *config.Config
	log        zerolog.Logger
	hookRunner *HookRunner
	now        func() time.Time
}

// New creates a new Service.
func New(
	sessions *session.Store,
	carts *cart.Store,
	api API,
	cfg *config.Config,
	exec executil.Executor,
	log zerolog.Logger,
	stdout, stderr io.Writer,
) *Service {
	return &Service{
		session:    sessions,
		cart:       carts,
		api:        api,
		config:     cfg,
		log:        log,
		hookRunner: NewHookRunner(log.With().Str("component", "hooks").Logger(), exec, stdout, stderr),
		now:        time.Now,
	}
}

// Session returns the session store.
func (s *Service) Session() *session.Store {
	return s.session
}

// Cart returns the cart store.
func (s *Service) Cart() *cart.Store {
	return s.cart
}

// Config returns the loaded configuration.
func (s *Service) Config() *config.Config {
	return s.config
}

func (s *Service) requireAuth() error {
	if !s.session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

func (s *Service) requireAdmin() error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	if !s.session.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}
