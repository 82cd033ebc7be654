package store

import (
	"context"
	"sync"

	"trailblog/internal/api"
	"trailblog/internal/core/domain"
)

// AuthStore holds the current session. The token itself lives in the API
// client and its durable storage; this store owns the profile and error state.
type AuthStore struct {
	client *api.Client

	mu            sync.RWMutex
	user          *domain.User
	authenticated bool
	lastErr       error
}

func NewAuthStore(client *api.Client) *AuthStore {
	return &AuthStore{client: client}
}

// Login authenticates and loads the profile. On failure the error is recorded
// and the store stays unauthenticated.
func (s *AuthStore) Login(ctx context.Context, username, password string) error {
	if _, err := s.client.Login(ctx, username, password); err != nil {
		s.fail(err)
		return err
	}
	user, err := s.client.Me(ctx)
	if err != nil {
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Register creates an account. The backend does not hand out a token on
// registration, so the caller stays unauthenticated until they log in.
func (s *AuthStore) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	user, err := s.client.Register(ctx, username, email, password)
	if err != nil {
		s.fail(err)
		return nil, err
	}
	s.ClearError()
	return user, nil
}

// RestoreSession revalidates a token persisted by a previous run. With no
// token it is a no-op.
func (s *AuthStore) RestoreSession(ctx context.Context) error {
	if s.client.Token() == "" {
		return nil
	}
	user, err := s.client.Me(ctx)
	if err != nil {
		// Stale token; drop it rather than retrying it on every request.
		s.client.ClearToken()
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// Logout clears the token and profile. Safe to call with no session.
func (s *AuthStore) Logout() error {
	err := s.client.ClearToken()
	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.lastErr = nil
	s.mu.Unlock()
	return err
}

// ClearError resets the error field, typically whenever the user edits a
// form field so stale messages do not survive a retry.
func (s *AuthStore) ClearError() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *AuthStore) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *AuthStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *AuthStore) fail(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.authenticated = false
	s.user = nil
	s.mu.Unlock()
}
