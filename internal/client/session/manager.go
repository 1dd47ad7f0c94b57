// Package session tracks the client's authentication state: the bearer token,
// the identity decoded from it, and a durable copy in the local database so
// that a session survives restarts. Expiry is judged locally from the token's
// claims; no network call is ever made to decide whether a stored token is
// still usable.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hkondo/secretbase/internal/client/repositories/metadata"
)

const tokenKey = "auth_token"

// Identity is the user identity carried inside a token.
type Identity struct {
	ID       int64
	Username string
}

type claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
}

// Manager owns the current session. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	store    metadata.Repository
	token    string
	identity *Identity
	subs     []chan struct{}
}

func NewManager(store metadata.Repository) *Manager {
	return &Manager{store: store}
}

// decode extracts the identity and expiry from a token without verifying its
// signature. The server is the sole authority on validity; the client only
// needs the claims to display identity and to discard obviously stale tokens.
func decode(token string) (*Identity, time.Time, error) {
	c := &claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, c); err != nil {
		return nil, time.Time{}, fmt.Errorf("cannot decode token: %w", err)
	}
	var expiresAt time.Time
	if c.ExpiresAt != nil {
		expiresAt = c.ExpiresAt.Time
	}
	return &Identity{ID: c.UserID, Username: c.Subject}, expiresAt, nil
}

// Restore loads a previously saved token from the local store. A token that
// is missing, undecodable, or past its expiry leaves the manager logged out;
// stale tokens are removed from the store so the next start is clean.
func (m *Manager) Restore(ctx context.Context) error {
	raw, err := m.store.Get(ctx, tokenKey)
	if err != nil {
		return fmt.Errorf("cannot read saved session: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	identity, expiresAt, err := decode(string(raw))
	if err != nil || (!expiresAt.IsZero() && time.Now().After(expiresAt)) {
		if delErr := m.store.Delete(ctx, tokenKey); delErr != nil {
			return fmt.Errorf("cannot discard stale session: %w", delErr)
		}
		return nil
	}

	m.mu.Lock()
	m.token = string(raw)
	m.identity = identity
	m.mu.Unlock()
	return nil
}

// SetToken installs a freshly issued token and persists it. A token that is
// already past its expiry is refused.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	identity, expiresAt, err := decode(token)
	if err != nil {
		return err
	}
	if !expiresAt.IsZero() && time.Now().After(expiresAt) {
		return fmt.Errorf("token already expired")
	}
	if err := m.store.Set(ctx, tokenKey, []byte(token)); err != nil {
		return fmt.Errorf("cannot save session: %w", err)
	}

	m.mu.Lock()
	m.token = token
	m.identity = identity
	m.mu.Unlock()
	return nil
}

// Logout clears the session on explicit user request. Unlike Invalidate it
// does not notify subscribers; the caller initiated the change and already
// knows about it.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("cannot clear saved session: %w", err)
	}
	m.mu.Lock()
	m.token = ""
	m.identity = nil
	m.mu.Unlock()
	return nil
}

// Invalidate clears the session after the server rejected the token and
// notifies subscribers. Invalidating an already-empty session is a no-op, so
// several concurrent rejections produce at most one notification.
// Subscribers are notified even when the durable copy cannot be removed;
// a stale copy left behind is discarded by Restore on the next start.
func (m *Manager) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return nil
	}
	m.token = ""
	m.identity = nil
	subs := make([]chan struct{}, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}

	if err := m.store.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("cannot clear saved session: %w", err)
	}
	return nil
}

// Token returns the current bearer token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Current returns the identity of the logged-in user, or nil when logged out.
func (m *Manager) Current() *Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil
	}
	id := *m.identity
	return &id
}

// Subscribe returns a channel that receives one value each time the session
// is invalidated by the server. The channel is buffered; a subscriber that is
// not listening at the moment of invalidation still observes it later.
func (m *Manager) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}
