package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/guarzo/hrmapi/common"
	"github.com/guarzo/hrmapi/common/logger"
	"github.com/guarzo/hrmapi/common/model"
)

// ErrNoSession is returned by Restore when no tokens are stored.
var ErrNoSession = errors.New("no stored session")

// Session owns the token pair lifecycle: restored at start, created by login,
// destroyed by logout or when the stored pair can no longer authenticate.
type Session struct {
	client *Client
	tokens common.TokenStore
	logger *logger.Logger

	mu   sync.RWMutex
	user *model.User
}

// NewSession creates a Session over the given store.
func NewSession(client *Client, tokens common.TokenStore, l *logger.Logger) *Session {
	return &Session{client: client, tokens: tokens, logger: l}
}

// Restore validates a stored pair by fetching the current user. The gateway refreshes
// an expired access token on the way; if the user still cannot be loaded both slots
// are cleared.
func (s *Session) Restore(ctx context.Context) (*model.User, error) {
	_, hasAccess := s.tokens.AccessToken()
	_, hasRefresh := s.tokens.RefreshToken()
	if !hasAccess && !hasRefresh {
		return nil, ErrNoSession
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		s.logger.Warn("stored session is no longer valid, clearing tokens", "error", err)
		if clearErr := s.clear(); clearErr != nil {
			return nil, errors.Join(err, clearErr)
		}
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	s.setUser(user)
	return user, nil
}

// Login authenticates, persists the new pair, and loads the user profile.
func (s *Session) Login(ctx context.Context, email, password string) (*model.User, error) {
	tok, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.SetTokens(tok.AccessToken, tok.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("logged in but failed to load profile: %w", err)
	}
	s.setUser(user)
	s.logger.Info("logged in", "user_id", user.ID)
	return user, nil
}

// Logout forgets the user and clears both token slots.
func (s *Session) Logout() error {
	return s.clear()
}

// User returns the loaded user, or nil.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a user is loaded and an access token is stored.
func (s *Session) Authenticated() bool {
	_, hasAccess := s.tokens.AccessToken()
	return hasAccess && s.User() != nil
}

func (s *Session) setUser(u *model.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

func (s *Session) clear() error {
	s.setUser(nil)
	if err := s.tokens.Clear(); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}
