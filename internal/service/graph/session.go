package graph

import (
	"sync"

	"kinship-backend/internal/domain"
	"kinship-backend/internal/layout"
	"kinship-backend/internal/scene"
)

// session is the live state for one user: the graph model, the layout
// engine with its continuity cache, and the interaction surface. All
// access goes through mu; the engine and surface are not safe for
// concurrent use on their own.
type session struct {
	init sync.Once

	mu      sync.Mutex
	snap    *domain.Snapshot
	engine  *layout.Engine
	surface *scene.Surface

	// Pending snapshot for the background save worker. Rapid mutations
	// coalesce here; the store always receives the newest state last.
	saveMu    sync.Mutex
	saveQueue *domain.Snapshot
	saveBusy  bool
}

// sessionSet is the map of live sessions keyed by user id.
type sessionSet struct {
	mu     sync.Mutex
	byUser map[string]*session
}

func newSessionSet() *sessionSet {
	return &sessionSet{byUser: make(map[string]*session)}
}

// get returns the user's session, creating an empty one on first
// touch. Callers bootstrap it through session.init so concurrent first
// requests for the same user load the snapshot exactly once.
func (set *sessionSet) get(userID string) *session {
	set.mu.Lock()
	defer set.mu.Unlock()
	if sess, ok := set.byUser[userID]; ok {
		return sess
	}
	sess := &session{}
	set.byUser[userID] = sess
	return sess
}
