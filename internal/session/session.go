// Package session issues and resolves the opaque identity a client carries
// between requests. The cookie value is a signed token naming a session id;
// the session id maps to a user id in a Store.
package session

import (
	"context" // Store calls
	"fmt"     // Error wrapping
	"time"    // Session lifetime

	"github.com/google/uuid"     // Session ids
	"github.com/sirupsen/logrus" // Structured logging
)

// CookieName is the cookie holding the session token.
const CookieName = "session"

// Manager issues, resolves and revokes sessions.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

// NewManager creates a Manager that keeps records in store and signs cookies with secret.
func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl}
}

// TTL is how long an issued session stays valid.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Start opens a session for userID and returns the cookie value.
func (m *Manager) Start(ctx context.Context, userID uint) (string, error) {
	id := uuid.NewString()
	if err := m.store.Save(ctx, id, Record{UserID: userID, CreatedAt: time.Now()}, m.ttl); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	token, err := signToken(id, userID, m.secret, m.ttl)
	if err != nil {
		_ = m.store.Delete(ctx, id)
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Resolve returns the user id behind a cookie value. ok is false for tampered,
// expired or ended sessions.
func (m *Manager) Resolve(ctx context.Context, token string) (userID uint, ok bool, err error) {
	if token == "" {
		return 0, false, nil
	}
	claims, perr := parseToken(token, m.secret)
	if perr != nil {
		logrus.WithError(perr).Debug("Rejected session token")
		return 0, false, nil
	}
	rec, found, err := m.store.Load(ctx, claims.SessionID)
	if err != nil {
		return 0, false, fmt.Errorf("load session: %w", err)
	}
	if !found || rec.UserID != claims.UserID {
		return 0, false, nil
	}
	return rec.UserID, true, nil
}

// End deletes the session behind a cookie value. Unknown tokens are ignored.
func (m *Manager) End(ctx context.Context, token string) error {
	claims, err := parseToken(token, m.secret)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, claims.SessionID)
}
