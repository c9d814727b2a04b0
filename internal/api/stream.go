package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/terra-clan/travel-catalog/internal/view"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	streamPingInterval = 30 * time.Second
	streamWriteTimeout = 10 * time.Second
)

// StreamMessage is pushed to stream clients
type StreamMessage struct {
	Type  string      `json:"type"`
	State *view.State `json:"state,omitempty"`
	Error string      `json:"error,omitempty"`
}

// streamConn serialises writes; gorilla allows one concurrent writer
type streamConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *streamConn) send(msg StreamMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal stream message", "error", err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send stream message", "error", err)
		return err
	}
	return nil
}

func (c *streamConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteTimeout))
}

// handleViewStream pushes every state change of a view, including carousel
// ticks, and accepts view actions as JSON messages.
func (s *Server) handleViewStream(w http.ResponseWriter, r *http.Request) {
	v := ViewFromContext(r.Context())

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer ws.Close()
	conn := &streamConn{conn: ws}

	slog.Info("view stream connected", "view_id", v.ID())

	// Keep only the latest undelivered state; observers must never block
	// because they run under the view's lock.
	updates := make(chan view.State, 1)
	unsubscribe := v.Subscribe(func(st view.State) {
		select {
		case updates <- st:
		default:
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- st:
			default:
			}
		}
	})
	defer unsubscribe()

	initial := v.State()
	if initial.Closed {
		_ = conn.send(StreamMessage{Type: "closed", State: &initial, Error: view.ErrViewClosed.Error()})
		return
	}
	if err := conn.send(StreamMessage{Type: "state", State: &initial}); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// View -> WebSocket
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()

		ticker := time.NewTicker(streamPingInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case st := <-updates:
				if st.Closed {
					_ = conn.send(StreamMessage{Type: "closed", State: &st, Error: view.ErrViewClosed.Error()})
					_ = ws.Close()
					return
				}
				if err := conn.send(StreamMessage{Type: "state", State: &st}); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.ping(); err != nil {
					return
				}
			}
		}
	}()

	// WebSocket -> view
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		for {
			_, message, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}

			var a viewAction
			if err := json.Unmarshal(message, &a); err != nil {
				slog.Debug("invalid message format", "error", err)
				_ = conn.send(StreamMessage{Type: "error", Error: "invalid message"})
				continue
			}

			// successful actions reach the client through the observer
			if _, err := apply(v, a); err != nil {
				if errors.Is(err, view.ErrViewClosed) {
					_ = conn.send(StreamMessage{Type: "closed", Error: err.Error()})
					return
				}
				if err := conn.send(StreamMessage{Type: "error", Error: err.Error()}); err != nil {
					return
				}
			}
		}
	}()

	// the reader only returns once the socket is closed
	<-ctx.Done()
	_ = ws.Close()
	wg.Wait()
	slog.Info("view stream disconnected", "view_id", v.ID())
}
