package engine

import (
	"sync"
	"time"

	"github.com/fareleap/traveldeals/internal/offers"
	"github.com/fareleap/traveldeals/internal/places"
)

// State is the current step of a user's booking dialogue.
type State int

const (
	StateMenu State = iota
	StateTripType
	StateOriginQuery
	StateOriginSelect
	StateDestQuery
	StateDestSelect
	StateDepartDate
	StateReturnDate
	// StateIdle is the terminal state after results are shown. The session
	// stays addressable for pagination until restarted.
	StateIdle
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StateTripType:
		return "trip_type"
	case StateOriginQuery:
		return "origin_query"
	case StateOriginSelect:
		return "origin_select"
	case StateDestQuery:
		return "dest_query"
	case StateDestSelect:
		return "dest_select"
	case StateDepartDate:
		return "depart_date"
	case StateReturnDate:
		return "return_date"
	case StateIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// TripType distinguishes one-way from round-trip flight searches.
type TripType string

const (
	TripUnset     TripType = ""
	TripOneWay    TripType = "one_way"
	TripRoundTrip TripType = "round_trip"
)

// Session is the per-user record of booking-flow progress. It is owned
// exclusively by the engine; the host adapter must deliver one event at a
// time per user.
type Session struct {
	State       State
	Service     places.Service
	TripType    TripType
	Origin      places.Point
	Destination places.Point
	DepartDate  time.Time
	ReturnDate  time.Time

	// Results is set once per search and never mutated afterwards;
	// Cursor is the pagination offset into it.
	Results []offers.Offer
	Cursor  int
}

// SessionStore holds sessions keyed by user id. Implementations must be
// safe for concurrent use across different users.
type SessionStore interface {
	Get(userID int64) (*Session, bool)
	Put(userID int64, s *Session)
	Delete(userID int64)
}

// InMemorySessionStore keeps sessions in a mutex-guarded map. State is lost
// on restart, which is acceptable for this bot.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewInMemorySessionStore creates an empty session store.
func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[int64]*Session)}
}

func (st *InMemorySessionStore) Get(userID int64) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[userID]
	return s, ok
}

func (st *InMemorySessionStore) Put(userID int64, s *Session) {
	st.mu.Lock()
	st.sessions[userID] = s
	st.mu.Unlock()
}

func (st *InMemorySessionStore) Delete(userID int64) {
	st.mu.Lock()
	delete(st.sessions, userID)
	st.mu.Unlock()
}
