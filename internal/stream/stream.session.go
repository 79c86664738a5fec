// FilePath: internal/stream/stream.session.go
package stream

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/medwatch/vitalhub/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// EventNewReading is the event name pushed for every ingested reading.
const EventNewReading = "newReading"

// Event is the envelope written to observer sockets.
type Event struct {
	Event string         `json:"event"`
	Data  models.Reading `json:"data"`
}

const (
	sessionQueueSize = 64
	writeWait        = 10 * time.Second
	pingPeriod       = 30 * time.Second
	pongWait         = 60 * time.Second
)

// Session represents one connected observer. A session is either
// connected or disconnected; a client that reconnects gets a brand-new
// session.
type Session struct {
	id        string
	conn      *websocket.Conn
	send      chan models.Reading
	done      chan struct{}
	closeOnce sync.Once
}

func NewSession(conn *websocket.Conn) *Session {
	return &Session{
		id:   nuts.NID("obs", 12),
		conn: conn,
		send: make(chan models.Reading, sessionQueueSize),
		done: make(chan struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

// enqueue hands a reading to the session's outbound queue without
// blocking. A full queue or a closed session drops this one delivery.
func (s *Session) enqueue(reading models.Reading) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- reading:
		return true
	case <-s.done:
		return false
	default:
		return false
	}
}

func (s *Session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// WritePump drains the outbound queue to the socket until the session
// ends. It owns all writes on the connection.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case reading := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(Event{Event: EventNewReading, Data: reading}); err != nil {
				nuts.L.Warnf("[Session] %s write failed: %v", s.id, err)
				s.close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// ReadPump discards inbound messages until the peer goes away. Clients
// send nothing at the application level; reads exist only to detect
// disconnects. Returns when the connection is gone.
func (s *Session) ReadPump() {
	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
