package conversation

import (
	"sync"

	"github.com/uzulab/soudanin/internal/assistant"
	"github.com/uzulab/soudanin/internal/schedule"
)

// Session holds the in-memory conversation state for one counterpart.
// Invariant: OfferedSlots is non-empty exactly when AwaitingSelection is
// true. The engine holds mu for the whole turn, so at most one turn per
// session is ever in flight.
type Session struct {
	mu sync.Mutex

	CounterpartID     string
	Transcript        []assistant.Turn
	AwaitingSelection bool
	OfferedSlots      []schedule.Slot
}

func (s *Session) appendTurn(role, content string) {
	s.Transcript = append(s.Transcript, assistant.Turn{Role: role, Content: content})
}

func (s *Session) setOffer(slots []schedule.Slot) {
	s.OfferedSlots = slots
	s.AwaitingSelection = len(slots) > 0
}

func (s *Session) clearOffer() {
	s.OfferedSlots = nil
	s.AwaitingSelection = false
}

// Store owns all sessions, keyed by counterpart id. Sessions are created
// lazily on first message and live for the process lifetime.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

func (st *Store) GetOrCreate(counterpartID string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[counterpartID]
	if !ok {
		s = &Session{CounterpartID: counterpartID}
		st.sessions[counterpartID] = s
	}
	return s
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
