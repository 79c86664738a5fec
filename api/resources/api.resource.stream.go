// FilePath: api/resources/api.resource.stream.go
package resources

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/medwatch/vitalhub/internal/stream"
	nuts "github.com/vaudience/go-nuts"
)

// StreamHandlers encapsulates the live-feed HTTP handlers
type StreamHandlers struct {
	hub *stream.Hub
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from a different origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Subscribe to the live feed
// @Description Upgrade to a WebSocket that pushes a newReading event for every ingested reading
// @Tags stream
// @Success 101
// @Router /stream [get]
func (h *StreamHandlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		nuts.L.Warnf("[Stream] Upgrade failed: %v", err)
		return
	}

	session := stream.NewSession(conn)
	h.hub.Register(session)

	go session.WritePump()
	session.ReadPump()

	h.hub.Unregister(session)
}
