package dashboard

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/edugen/internal/logger"
	"github.com/ziadkadry99/edugen/internal/pipeline"
)

const (
	clientBuffer = 16
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// progressMessage is the outgoing websocket message format.
type progressMessage struct {
	Type   string          `json:"type"` // "status"
	Status pipeline.Status `json:"status"`
}

// hub fans pipeline status out to websocket clients. A client that falls
// behind loses events rather than stalling the pipeline.
type hub struct {
	log *logger.Logger

	mu      sync.Mutex
	clients map[chan pipeline.Status]struct{}
}

func newHub(log *logger.Logger) *hub {
	return &hub{log: log, clients: make(map[chan pipeline.Status]struct{})}
}

func (h *hub) register() chan pipeline.Status {
	ch := make(chan pipeline.Status, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *hub) unregister(ch chan pipeline.Status) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

func (h *hub) broadcast(st pipeline.Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- st:
		default:
			h.log.Debug("dropping status for slow websocket client", "step", string(st.Step))
		}
	}
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates := d.hub.register()
	defer d.hub.unregister(updates)

	// The read loop only exists to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					d.log.Debug("websocket read failed", "error", err)
				}
				return
			}
		}
	}()

	if err := d.send(conn, d.ws.Status()); err != nil {
		return
	}
	for {
		select {
		case st := <-updates:
			if err := d.send(conn, st); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func (d *Dashboard) send(conn *websocket.Conn, st pipeline.Status) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(progressMessage{Type: "status", Status: st}); err != nil {
		d.log.Debug("websocket write failed", "error", err)
		return err
	}
	return nil
}
