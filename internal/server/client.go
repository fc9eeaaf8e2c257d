package server

import "errors"

// ErrMalformed wraps request decoding failures. The connection stays open
// and the failure counts toward the sender's lockout.
var ErrMalformed = errors.New("malformed request")

// Client abstracts the connection layer for both line and WebSocket
// connections so one handler drives a session over either transport.
type Client interface {
	// ReadRequest blocks until a complete request is received. Decoding
	// failures are returned wrapped in ErrMalformed.
	ReadRequest() (Request, error)

	// WriteResponse sends one response to the client.
	WriteResponse(resp Response) error

	// Close closes the connection.
	Close() error

	// RemoteAddr returns the client's address for logging.
	RemoteAddr() string
}
