// Package session holds the logged-in user and token for one client process.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/yeremiapane/steakz-restaurant/client/api"
	"github.com/yeremiapane/steakz-restaurant/models"
)

// Backend is the part of the API client a session drives.
type Backend interface {
	Login(ctx context.Context, username, password string) (*api.AuthResult, error)
	Signup(ctx context.Context, username, email, password string) (*api.AuthResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	SetTokenSource(ts api.TokenSource)
}

// Session is built once at startup and passed to whatever needs the current
// user. Logout listeners run synchronously, in registration order.
type Session struct {
	backend Backend
	store   TokenStore

	mu        sync.RWMutex
	token     string
	user      *models.User
	listeners []func()
}

// New wires the session in as backend's token source. A nil store keeps the
// token in memory only.
func New(backend Backend, store TokenStore) *Session {
	if store == nil {
		store = NewMemoryTokenStore()
	}
	s := &Session{backend: backend, store: store}
	backend.SetTokenSource(s)
	return s
}

// Restore resumes a persisted session. It reports false when there was no
// token or the server no longer accepts it.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	token, err := s.store.Load()
	if err != nil {
		return false, fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return false, nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.backend.Me(ctx)
	if err != nil {
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		if api.IsUnauthorized(err) {
			return false, s.store.Clear()
		}
		return false, err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return true, nil
}

func (s *Session) Login(ctx context.Context, username, password string) (*models.User, error) {
	res, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.begin(res)
}

// Signup registers a customer account and logs it in.
func (s *Session) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	res, err := s.backend.Signup(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	return s.begin(res)
}

func (s *Session) begin(res *api.AuthResult) (*models.User, error) {
	user := res.User
	s.mu.Lock()
	s.token = res.Token
	s.user = &user
	s.mu.Unlock()
	if err := s.store.Save(res.Token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	return s.User(), nil
}

// Logout revokes the token on the server when it can, then forgets the user
// and runs the logout listeners. Local state is cleared even if the server
// call fails.
func (s *Session) Logout(ctx context.Context) error {
	var serverErr error
	if s.IsAuthenticated() {
		serverErr = s.backend.Logout(ctx)
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	storeErr := s.store.Clear()
	for _, fn := range listeners {
		fn()
	}
	if storeErr != nil {
		return fmt.Errorf("clear token: %w", storeErr)
	}
	if serverErr != nil && !api.IsUnauthorized(serverErr) {
		return fmt.Errorf("revoke token: %w", serverErr)
	}
	return nil
}

// OnLogout registers fn to run on every logout.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the logged-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}
