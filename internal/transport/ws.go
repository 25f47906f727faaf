package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// AllowedOriginFunc reports whether an Origin header should be accepted
// for a WebSocket upgrade.
type AllowedOriginFunc func(origin string) bool

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 4096,
}

// NewUpgrader builds a gorilla/websocket upgrader bound to the given
// origin checker.
func NewUpgrader(allowed AllowedOriginFunc) websocket.Upgrader {
	u := upgrader
	u.CheckOrigin = func(r *http.Request) bool {
		return allowed(r.Header.Get("Origin"))
	}
	return u
}

// WSPeer adapts a single gorilla/websocket connection to the Peer
// interface. Writes are serialized through a mutex, so the per-player
// snapshot writer and the server's direct replies (the join
// acknowledgement or a room-full error) can never interleave.
type WSPeer struct {
	conn     *websocket.Conn
	remoteIP string
	writeMu  sync.Mutex
}

// NewWSPeer wraps an upgraded connection.
func NewWSPeer(conn *websocket.Conn, remoteIP string) *WSPeer {
	conn.SetReadLimit(8192)
	return &WSPeer{conn: conn, remoteIP: remoteIP}
}

// Send marshals v to JSON and writes it as a single text frame.
func (p *WSPeer) Send(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

// ReadInput blocks for the next client frame.
func (p *WSPeer) ReadInput() (json.RawMessage, error) {
	_, data, err := p.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// Close terminates the underlying connection.
func (p *WSPeer) Close() error {
	return p.conn.Close()
}

// RemoteIP returns the address captured at upgrade time.
func (p *WSPeer) RemoteIP() string {
	return p.remoteIP
}
