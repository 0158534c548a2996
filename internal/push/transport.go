package push

import "context"

// Conn is a single established subscription to the event topic. Reads block
// until a message or a transport failure; a failed read means the
// connection is dead.
type Conn interface {
	ReadMessage() ([]byte, error)
	Close() error
}

// Transport dials the push endpoint. The manager owns exactly one live
// Conn at a time; tests substitute a scripted transport.
type Transport interface {
	Dial(ctx context.Context, url string) (Conn, error)
}
