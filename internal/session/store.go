// Package session keeps bounded in-memory conversation transcripts per sender.
package session

import (
	"log/slog"
	"sync"
	"time"
)

// Role identifies who produced a turn.
type Role string

const (
	RoleCustomer  Role = "customer"
	RoleAssistant Role = "assistant"
)

// Turn is one utterance in a transcript. Immutable after creation.
type Turn struct {
	Role Role
	Text string
}

// session is one sender's transcript. Owned exclusively by the Store.
type session struct {
	turns    []Turn
	lastSeen time.Time
}

// Store owns all sessions and is their only writer. All methods are safe
// for concurrent use; transcripts are bounded to maxTurns with
// oldest-first eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	maxTurns int
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore creates a store keeping at most maxTurns turns per sender.
func NewStore(log *slog.Logger, maxTurns int) *Store {
	if log == nil {
		log = slog.Default()
	}
	if maxTurns <= 0 {
		maxTurns = 20
	}
	return &Store{
		sessions: make(map[string]*session),
		maxTurns: maxTurns,
		logger:   log.With(slog.String("service", "session")),
		now:      time.Now,
	}
}

// History returns a copy of the sender's transcript, oldest turn first.
// Returns nil for an unknown sender (no session is created on read).
func (s *Store) History(senderID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[senderID]
	if !ok {
		return nil
	}
	out := make([]Turn, len(sess.turns))
	copy(out, sess.turns)
	return out
}

// Known reports whether the sender already has a session. The pipeline
// uses it to decide when to run the first-contact backend lookup.
func (s *Store) Known(senderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[senderID]
	return ok
}

// AppendExchange appends one completed exchange (customer turn then
// assistant turn) atomically, then evicts the oldest turns until the
// transcript is within bound. The pair is never interleaved with another
// exchange's pair.
func (s *Store) AppendExchange(senderID string, customer, assistant Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[senderID]
	if !ok {
		sess = &session{}
		s.sessions[senderID] = sess
	}
	sess.turns = append(sess.turns, customer, assistant)
	if over := len(sess.turns) - s.maxTurns; over > 0 {
		sess.turns = append(sess.turns[:0], sess.turns[over:]...)
	}
	sess.lastSeen = s.now()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SweepIdle removes sessions that have not seen an exchange within ttl and
// returns how many were dropped. A ttl of zero disables the sweep.
func (s *Store) SweepIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	dropped := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		s.logger.Info("idle sessions swept", slog.Int("dropped", dropped))
	}
	return dropped
}
