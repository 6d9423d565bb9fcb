package preview

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds a single websocket write.
const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The server binds to loopback by default; any local page may connect.
	CheckOrigin: func(*http.Request) bool { return true },
}

// hub tracks connected browsers and fans messages out to them.
// Writes happen under mu, so each connection has a single writer.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  *slog.Logger
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		clients: make(map[*websocket.Conn]struct{}),
		logger:  logger,
	}
}

// add registers conn and sends it the messages returned by initial. The
// snapshot is taken under mu, so a broadcast either lands in it or reaches
// conn after registration.
func (h *hub) add(conn *websocket.Conn, initial func() [][]byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, msg := range initial() {
		if err := write(conn, msg); err != nil {
			h.logger.Debug("initial write failed", "remote", conn.RemoteAddr().String(), "error", err)
			_ = conn.Close()
			return
		}
	}
	h.clients[conn] = struct{}{}
	h.logger.Debug("client connected", "remote", conn.RemoteAddr().String(), "clients", len(h.clients))
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
		h.logger.Debug("client disconnected", "remote", conn.RemoteAddr().String(), "clients", len(h.clients))
	}
}

// broadcast sends msg to every client, dropping those that fail.
func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := write(conn, msg); err != nil {
			h.logger.Debug("dropping client", "remote", conn.RemoteAddr().String(), "error", err)
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// closeAll sends a close frame to every client and forgets them.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	frame := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for conn := range h.clients {
		_ = conn.WriteControl(websocket.CloseMessage, frame, time.Now().Add(writeWait))
		_ = conn.Close()
		delete(h.clients, conn)
	}
}

func write(conn *websocket.Conn, msg []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, msg)
}

// serveWS upgrades the request and holds the connection until the browser
// goes away. Browsers never send data; reads only detect the close.
func (h *hub) serveWS(w http.ResponseWriter, r *http.Request, initial func() [][]byte) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	h.add(conn, initial)
	defer h.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
