package cache

import (
	"sync"

	"github.com/hrkit/chartbot/pkg/models"
)

// HistoryStore keeps the bounded per-session conversation history.
// Each session holds at most maxTurns turns; appending beyond the bound
// evicts the oldest turn first. Sessions are independent of each other.
type HistoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]models.ConversationTurn
	maxTurns int
}

// NewHistoryStore creates a history store holding at most maxTurns turns
// per session.
func NewHistoryStore(maxTurns int) *HistoryStore {
	return &HistoryStore{
		sessions: make(map[string][]models.ConversationTurn),
		maxTurns: maxTurns,
	}
}

// Append adds a turn to the session, evicting the oldest turn when the
// session is full. The append and eviction are a single atomic step, so
// the bound is never observably exceeded.
func (s *HistoryStore) Append(sessionID string, turn models.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.sessions[sessionID], turn)
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	s.sessions[sessionID] = turns
}

// Turns returns a copy of the session's history in chronological order.
// An unknown session yields an empty slice.
func (s *HistoryStore) Turns(sessionID string) []models.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.sessions[sessionID]
	out := make([]models.ConversationTurn, len(turns))
	copy(out, turns)
	return out
}

// Recent returns up to n of the most recent turns in chronological order.
func (s *HistoryStore) Recent(sessionID string, n int) []models.ConversationTurn {
	turns := s.Turns(sessionID)
	if n <= 0 || len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// Clear removes a session's history entirely.
func (s *HistoryStore) Clear(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}
