// Package session owns the collected state for active wizard sessions. One
// session holds exactly one ReleaseDraft, one dialogue step and one
// conversation log; sessions are fully isolated from each other.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/releasewizard/api/internal/model"
)

// Session is the unit of wizard state. All mutation happens under the
// session mutex so utterances are processed strictly in submission order.
type Session struct {
	ID              string
	UserID          string
	Artist          string
	PayoutConnected bool

	Draft *model.ReleaseDraft
	Step  model.DialogueStep
	Log   []model.ConversationTurn

	// ReturnToReview is the one-shot flag set on edit re-entry; the next
	// successful answer jumps back to review and clears it.
	ReturnToReview bool

	// EditTarget remembers which field an edit jump is re-capturing.
	EditTarget model.FieldID

	CreatedAt time.Time

	mu sync.Mutex
}

// Lock serializes processing of one session's utterances.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// AppendTurn records a conversation turn on the append-only log.
func (s *Session) AppendTurn(role, text, sourceLabel string) {
	s.Log = append(s.Log, model.ConversationTurn{
		Role:        role,
		Text:        text,
		SourceLabel: sourceLabel,
		Timestamp:   time.Now(),
	})
}

// History returns up to limit most recent turns for provider context.
func (s *Session) History(limit int) []model.ConversationTurn {
	if limit <= 0 || len(s.Log) <= limit {
		return s.Log
	}
	return s.Log[len(s.Log)-limit:]
}

// Store keeps active sessions in memory keyed by session ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create starts a fresh session with the draft pre-seeded from identity.
func (st *Store) Create(userID, artist string, payoutConnected bool) *Session {
	s := &Session{
		ID:              uuid.New().String(),
		UserID:          userID,
		Artist:          artist,
		PayoutConnected: payoutConnected,
		Draft:           model.NewReleaseDraft(artist),
		Step:            model.StepIntro,
		CreatedAt:       time.Now(),
	}
	if !payoutConnected {
		s.Step = model.StepPayoutGate
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session or nil when unknown.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// Reset discards the session's draft and log and starts over. The session
// identity (user, artist, payout flag) is kept.
func (st *Store) Reset(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	old, ok := st.sessions[id]
	if !ok {
		return nil
	}

	fresh := &Session{
		ID:              old.ID,
		UserID:          old.UserID,
		Artist:          old.Artist,
		PayoutConnected: old.PayoutConnected,
		Draft:           model.NewReleaseDraft(old.Artist),
		Step:            model.StepIntro,
		CreatedAt:       time.Now(),
	}
	if !fresh.PayoutConnected {
		fresh.Step = model.StepPayoutGate
	}
	st.sessions[id] = fresh
	return fresh
}

// Delete removes a session entirely.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}
