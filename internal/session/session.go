// Package session holds the signed-in user for client commands.
//
// A Session is created once per process from an injected Store and passed
// explicitly, usually through a context.Context.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrNoUser is returned by a Store that holds no user.
var ErrNoUser = errors.New("session: no user")

// User is the persisted identity of the signed-in account.
type User struct {
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
}

// Valid reports whether u has the fields a stored user is required to carry.
func (u User) Valid() bool {
	return strings.TrimSpace(u.AccountID) != "" && strings.TrimSpace(u.Username) != ""
}

// Store persists the current user.
type Store interface {
	// Load returns the stored user, or ErrNoUser when nothing is stored.
	Load(ctx context.Context) (User, error)
	Save(ctx context.Context, u User) error
	// Clear removes the stored user. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// Session caches the user read from its Store.
type Session struct {
	store Store

	mu     sync.Mutex
	user   User
	loaded bool
	found  bool
}

// New creates a Session backed by store. Nothing is read until first use.
func New(store Store) *Session {
	return &Session{store: store}
}

// User returns the signed-in user. ok is false when nobody is signed in.
// The store is read at most once; later calls are served from memory.
func (s *Session) User(ctx context.Context) (u User, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.user, s.found, nil
	}

	u, err = s.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoUser):
		s.loaded = true
		return User{}, false, nil
	case err != nil:
		return User{}, false, err
	}

	if !u.Valid() {
		s.loaded = true
		return User{}, false, nil
	}

	s.user, s.found, s.loaded = u, true, true
	return u, true, nil
}

// Login stores u as the signed-in user.
func (s *Session) Login(ctx context.Context, u User) error {
	if !u.Valid() {
		return errors.New("session: account id and username are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(ctx, u); err != nil {
		return err
	}
	s.user, s.found, s.loaded = u, true, true
	return nil
}

// Logout clears the signed-in user.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.user, s.found, s.loaded = User{}, false, true
	return nil
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the Session carried by ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
