// Package transport adapts the room simulation to wire protocols. A
// Peer is one connected player's send/receive channel; the websocket
// implementation is the only one today, but room.go never imports
// gorilla/websocket directly so a test double can stand in for it.
package transport

import "encoding/json"

// Peer is the minimal interface the room/server wiring needs from a
// connected client, independent of the underlying transport.
type Peer interface {
	// Send writes one JSON-encoded message to the peer. Must not block
	// indefinitely; implementations should drop the peer on backpressure
	// rather than stall the broadcast loop.
	Send(v interface{}) error
	// ReadInput blocks for the next client input message, or returns an
	// error when the connection is closed.
	ReadInput() (json.RawMessage, error)
	// Close terminates the connection.
	Close() error
	// RemoteIP returns the originating address, for rate limiting.
	RemoteIP() string
}
