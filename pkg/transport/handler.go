package transport

import (
	"context"

	"github.com/rhuss/pforte/pkg/message"
)

// Handler serves one request. It returns the response to send, or an error
// that the host converts into an error response. A Handler must not send
// the response itself.
type Handler interface {
	Handle(ctx context.Context, req *message.Request) (*message.Response, error)
}

// HandlerFunc is an adapter that allows using an ordinary function as a Handler.
type HandlerFunc func(ctx context.Context, req *message.Request) (*message.Response, error)

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req *message.Request) (*message.Response, error) {
	return f(ctx, req)
}
