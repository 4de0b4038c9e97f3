package session

import (
	"context"
	"errors"
	"sync"

	"github.com/jurislens-poc/server/internal/agent/model"
	appErr "github.com/jurislens-poc/server/internal/core/error"
	"github.com/jurislens-poc/server/internal/knowledge"
	logx "github.com/jurislens-poc/server/pkg/logger"
)

// Session bundles the per-conversation state: the chat runner and the
// knowledge store that its search tool reads from. Each conversation gets
// its own store so ingested documents never leak across sessions.
type Session struct {
	ID        string
	Knowledge *knowledge.Store
	Runner    Runner
}

// Runner executes one chat turn for a session.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) (string, error)
}

// RunnerFactory builds a Runner bound to a session-scoped knowledge store.
type RunnerFactory func(ctx context.Context, store *knowledge.Store) (Runner, error)

// Manager owns the conversationID -> Session mapping with create-on-first-use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  RunnerFactory
}

func NewManager(factory RunnerFactory) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		factory:  factory,
	}
}

// Get returns the session for the given conversation ID, creating it if needed.
func (m *Manager) Get(ctx context.Context, conversationID string) (*Session, error) {
	if conversationID == "" {
		return nil, appErr.InvalidArgument(errors.New("empty conversation id"), "conversation id is required")
	}

	m.mu.RLock()
	s, ok := m.sessions[conversationID]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// re-check under the write lock
	if s, ok := m.sessions[conversationID]; ok {
		return s, nil
	}

	store := knowledge.NewStore()
	runner, err := m.factory(ctx, store)
	if err != nil {
		return nil, err
	}

	s = &Session{ID: conversationID, Knowledge: store, Runner: runner}
	m.sessions[conversationID] = s
	logx.Info().Str("conversation_id", conversationID).Msg("Session created")
	return s, nil
}

// Reset drops a session and its knowledge store. The next request with the
// same conversation ID starts from a clean slate.
func (m *Manager) Reset(conversationID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[conversationID]; !ok {
		return false
	}
	delete(m.sessions, conversationID)
	logx.Info().Str("conversation_id", conversationID).Msg("Session reset")
	return true
}

// Close drops every session. Used on shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.sessions)
	m.sessions = make(map[string]*Session)
	if n > 0 {
		logx.Info().Int("sessions", n).Msg("All sessions dropped")
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
