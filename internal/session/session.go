// Package session implements the admin session lifecycle: opaque tokens
// from a cryptographically secure source, a sliding inactivity window, and
// a hard cap on total session age. The clock is injected so expiry is
// testable without waiting.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

const tokenBytes = 32

// ErrNoSession is returned when a token does not resolve to a live session.
var ErrNoSession = errors.New("session not found")

// ErrExpired is returned when a session exists but has outlived its idle
// window or hard cap.
var ErrExpired = errors.New("session expired")

// Session is the server-side state behind an admin token.
type Session struct {
	Token    string    `json:"-"`
	AdminID  string    `json:"admin_id"`
	IssuedAt time.Time `json:"issued_at"`
	LastSeen time.Time `json:"last_seen"`
}

// Store persists sessions keyed by token. Implementations must treat
// Delete of an absent token as a no-op.
type Store interface {
	Put(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// Manager issues, validates, and revokes sessions.
type Manager struct {
	store       Store
	idleTimeout time.Duration
	maxLifetime time.Duration
	now         func() time.Time
}

func NewManager(store Store, idleTimeout, maxLifetime time.Duration) *Manager {
	return &Manager{
		store:       store,
		idleTimeout: idleTimeout,
		maxLifetime: maxLifetime,
		now:         time.Now,
	}
}

// WithClock replaces the manager's time source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Create issues a fresh session for the admin and persists it with the
// idle-window TTL.
func (m *Manager) Create(ctx context.Context, adminID string) (Session, error) {
	token, err := newToken()
	if err != nil {
		return Session{}, err
	}
	now := m.now()
	s := Session{
		Token:    token,
		AdminID:  adminID,
		IssuedAt: now,
		LastSeen: now,
	}
	if err := m.store.Put(ctx, s, m.ttl(s, now)); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Validate resolves the token, enforces the hard cap and idle window, and
// slides the window by refreshing LastSeen. Expired sessions are removed.
func (m *Manager) Validate(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}
	s, err := m.store.Get(ctx, token)
	if err != nil {
		return Session{}, err
	}
	s.Token = token

	now := m.now()
	if now.Sub(s.IssuedAt) >= m.maxLifetime || now.Sub(s.LastSeen) >= m.idleTimeout {
		_ = m.store.Delete(ctx, token)
		return Session{}, ErrExpired
	}

	s.LastSeen = now
	if err := m.store.Put(ctx, s, m.ttl(s, now)); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Destroy revokes the session. Revoking an absent token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.store.Delete(ctx, token)
}

// ttl is the idle window, shortened when the hard cap is closer.
func (m *Manager) ttl(s Session, now time.Time) time.Duration {
	remaining := m.maxLifetime - now.Sub(s.IssuedAt)
	if remaining < m.idleTimeout {
		return remaining
	}
	return m.idleTimeout
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
