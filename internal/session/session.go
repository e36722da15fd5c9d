// Package session resolves the stored token into the current user's identity.
package session

import (
	"context"
	"errors"
	"os"
	"strings"

	"go.uber.org/zap"

	"taskdash/internal/service"
)

var (
	// ErrLoggedOut is returned when no token is stored.
	ErrLoggedOut = service.NewError(service.CodeUnauthorized, "not logged in")

	// ErrInvalidSession is returned when the stored token no longer resolves.
	// The token has been cleared by the time it is returned.
	ErrInvalidSession = service.NewError(service.CodeUnauthorized, "invalid session")

	// ErrTokenRejected is returned by Login for a token the store does not know.
	ErrTokenRejected = service.NewError(service.CodeUnauthorized, "token rejected")
)

// Session is the identity every component acts on behalf of.
type Session struct {
	User service.User
}

// IsAdmin reports whether the session user is an admin.
func (s *Session) IsAdmin() bool { return s != nil && s.User.IsAdmin() }

// UserID returns the session user's id.
func (s *Session) UserID() service.ID {
	if s == nil {
		return ""
	}
	return s.User.ID
}

// Owns reports whether the session may act on t: admins act on every task,
// other users only on their own.
func (s *Session) Owns(t service.Task) bool {
	if s == nil {
		return false
	}
	return s.IsAdmin() || t.UserID == s.User.ID
}

// TokenStore persists the session token on the client.
type TokenStore interface {
	// Load returns the stored token, or "" if none is stored.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the token in a single file.
type FileTokenStore struct {
	Path string
}

// Load implements TokenStore.
func (f FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Save implements TokenStore. The file is written with mode 0600.
func (f FileTokenStore) Save(token string) error {
	return os.WriteFile(f.Path, []byte(token+"\n"), 0600)
}

// Clear implements TokenStore. Clearing a missing token is not an error.
func (f FileTokenStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Resolver exchanges the stored token for a Session.
type Resolver struct {
	svc    service.Service
	tokens TokenStore
	log    *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(svc service.Service, tokens TokenStore, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{svc: svc, tokens: tokens, log: log}
}

// Load resolves the stored token.
// Without a token it returns ErrLoggedOut and makes no remote call.
// A token the store rejects is cleared and ErrInvalidSession is returned.
// Transport failures keep the token and return the backend error.
func (r *Resolver) Load(ctx context.Context) (*Session, error) {
	token, err := r.tokens.Load()
	if err != nil {
		return nil, service.WrapError(service.CodeBackend, "read token", err)
	}
	if token == "" {
		return nil, ErrLoggedOut
	}

	user, err := r.svc.ResolveToken(ctx, token)
	if err != nil {
		if rejected(err) {
			r.log.Info("session token rejected, clearing", zap.Error(err))
			if cerr := r.tokens.Clear(); cerr != nil {
				r.log.Warn("failed to clear token", zap.Error(cerr))
			}
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	r.log.Debug("session resolved",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	return &Session{User: user}, nil
}

// Login validates token against the store and saves it.
func (r *Resolver) Login(ctx context.Context, token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, service.NewError(service.CodeInvalid, "token required")
	}
	user, err := r.svc.ResolveToken(ctx, token)
	if err != nil {
		if rejected(err) {
			return nil, ErrTokenRejected
		}
		return nil, err
	}
	if err := r.tokens.Save(token); err != nil {
		return nil, service.WrapError(service.CodeBackend, "save token", err)
	}
	return &Session{User: user}, nil
}

// Logout clears the stored token.
func (r *Resolver) Logout() error {
	return r.tokens.Clear()
}

func rejected(err error) bool {
	return service.IsCode(err, service.CodeUnauthorized) || service.IsCode(err, service.CodeNotFound)
}
