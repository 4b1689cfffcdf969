// Package session tracks the client's authentication state: anonymous, or
// authenticated with the claims the server derived from the stored token.
package session

import (
	"context"
	"sync"

	"github.com/vedran77/fitlog/internal/client/api"
)

// State is either anonymous (User nil) or authenticated with claims.
type State struct {
	Authenticated bool
	User          *api.UserInfo
}

var anonymous = State{}

type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

type Introspector interface {
	UserInfo(ctx context.Context, token string) (*api.UserInfo, error)
}

// Manager is the client-side session state machine. State starts anonymous and
// stays anonymous until Initialize runs: the UI may render before the token
// store is safe to touch, so derivation is suppressed until then. A missing
// token or a failed introspection always degrades to anonymous, never to an
// error state.
type Manager struct {
	store TokenStore
	api   Introspector

	mu          sync.Mutex
	initialized bool
	state       State
	subscribers []func(State)
}

func NewManager(store TokenStore, introspector Introspector) *Manager {
	return &Manager{
		store: store,
		api:   introspector,
		state: anonymous,
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers an observer for state transitions. Notifications are
// delivered asynchronously.
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Initialize runs once: it derives the state from any previously stored token.
// Subsequent calls are no-ops.
func (m *Manager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return
	}
	m.initialized = true
	m.mu.Unlock()

	m.transition(m.derive(ctx))
}

// MarkAuthenticated persists the token and re-derives the state by asking the
// server who the token belongs to.
func (m *Manager) MarkAuthenticated(ctx context.Context, token string) error {
	if err := m.store.SetToken(ctx, token); err != nil {
		return err
	}

	m.mu.Lock()
	initialized := m.initialized
	m.mu.Unlock()
	if !initialized {
		return nil
	}

	m.transition(m.derive(ctx))
	return nil
}

// MarkLoggedOut clears the stored token and transitions to anonymous.
func (m *Manager) MarkLoggedOut(ctx context.Context) error {
	if err := m.store.ClearToken(ctx); err != nil {
		return err
	}
	m.transition(anonymous)
	return nil
}

func (m *Manager) derive(ctx context.Context) State {
	token, err := m.store.Token(ctx)
	if err != nil || token == "" {
		return anonymous
	}

	info, err := m.api.UserInfo(ctx, token)
	if err != nil {
		return anonymous
	}

	return State{Authenticated: true, User: info}
}

func (m *Manager) transition(next State) {
	m.mu.Lock()
	m.state = next
	subs := make([]func(State), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subs {
		go fn(next)
	}
}
