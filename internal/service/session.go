package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/pgray/antenna/internal/domain"
)

// sessionKey is where the auth snapshot is persisted between invocations
const sessionKey = "session/account"

// SessionService owns the current credentials and auth snapshot. It gates all
// catalog operations (CatalogService checks Authenticated before serving or
// fetching) and drives session-scoped cleanup on logout.
type SessionService struct {
	auth   domain.Authenticator
	kv     domain.KeyValueStore
	logger *slog.Logger

	mu       sync.Mutex
	account  *domain.Account
	cleanups []func(userID string)
}

// NewSessionService creates a session service. Call Load to restore a
// persisted session before first use.
func NewSessionService(auth domain.Authenticator, kv domain.KeyValueStore, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		auth:   auth,
		kv:     kv,
		logger: logger,
	}
}

// Load restores a persisted auth snapshot, if any. Best-effort: a missing or
// unreadable snapshot just means the user has to log in again.
func (s *SessionService) Load() {
	data, ok := s.kv.Get(sessionKey)
	if !ok {
		return
	}

	var acct domain.Account
	if err := json.Unmarshal(data, &acct); err != nil {
		s.logger.Warn("failed to parse persisted session", "error", err)
		return
	}

	s.mu.Lock()
	s.account = &acct
	s.mu.Unlock()

	s.logger.Debug("restored session", "username", acct.Username)
}

// Login authenticates against the portal and keeps the auth snapshot,
// persisting it for later invocations.
func (s *SessionService) Login(ctx context.Context) (*domain.Account, error) {
	acct, err := s.auth.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.account = acct
	s.mu.Unlock()

	if data, err := json.Marshal(acct); err == nil {
		if err := s.kv.Set(sessionKey, data); err != nil {
			s.logger.Warn("failed to persist session", "error", err)
		}
	}

	s.logger.Info("logged in", "username", acct.Username, "status", acct.Status)
	return acct, nil
}

// Authenticated reports whether a session is active
func (s *SessionService) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account != nil
}

// Account returns the current auth snapshot, or nil when logged out
func (s *SessionService) Account() *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// OnLogout registers session-scoped cleanup, run in registration order with
// the username of the session being torn down. The catalog cache reset is
// registered first by the composition root, so no stale catalog data can be
// served under a new session.
func (s *SessionService) OnLogout(fn func(userID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanups = append(s.cleanups, fn)
}

// Logout clears the credentials and the persisted snapshot, then runs all
// registered cleanups.
func (s *SessionService) Logout() {
	s.mu.Lock()
	if s.account == nil {
		s.mu.Unlock()
		return
	}
	username := s.account.Username
	s.account = nil
	cleanups := s.cleanups
	s.mu.Unlock()

	if err := s.kv.Remove(sessionKey); err != nil {
		s.logger.Warn("failed to remove persisted session", "error", err)
	}

	for _, fn := range cleanups {
		fn(username)
	}

	s.logger.Info("logged out", "username", username)
}
