// FilePath: internal/stream/stream.hub.go
package stream

import (
	"sync"

	"github.com/medwatch/vitalhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// Hub maintains the live set of observer sessions and fans each
// broadcast reading out to all of them. Registration, unregistration
// and broadcast are safe to call concurrently.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
	closed   bool
	events   *nuts.EventEmitter
}

func NewHub(events *nuts.EventEmitter) *Hub {
	return &Hub{
		sessions: make(map[*Session]struct{}),
		events:   events,
	}
}

// Register adds a session to the fan-out set. It takes effect for
// subsequently broadcast readings only; no history is replayed.
func (h *Hub) Register(session *Session) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		session.close()
		return
	}
	h.sessions[session] = struct{}{}
	h.mu.Unlock()

	nuts.L.Infof("[Hub] Session %s connected", session.ID())
	if h.events != nil {
		h.events.Emit("session.connected", session.ID())
	}
}

// Unregister removes a session. Removing an already-removed or
// never-registered session is a no-op.
func (h *Hub) Unregister(session *Session) {
	h.mu.Lock()
	_, registered := h.sessions[session]
	if registered {
		delete(h.sessions, session)
	}
	h.mu.Unlock()

	if !registered {
		return
	}

	session.close()
	nuts.L.Infof("[Hub] Session %s disconnected", session.ID())
	if h.events != nil {
		h.events.Emit("session.disconnected", session.ID())
	}
}

// Broadcast delivers the reading to every currently registered
// session. Each delivery is fire-and-forget: a session that cannot
// accept the reading drops that single delivery and never affects the
// others or the caller.
func (h *Hub) Broadcast(reading models.Reading) {
	h.mu.RLock()
	sessions := make([]*Session, 0, len(h.sessions))
	for session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.mu.RUnlock()

	for _, session := range sessions {
		if !session.enqueue(reading) {
			nuts.L.Warnf("[Hub] Dropped delivery to session %s", session.ID())
		}
	}
}

// Len returns the number of registered sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close disconnects all sessions and rejects future registrations.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	sessions := make([]*Session, 0, len(h.sessions))
	for session := range h.sessions {
		sessions = append(sessions, session)
		delete(h.sessions, session)
	}
	h.mu.Unlock()

	for _, session := range sessions {
		session.close()
	}
}
