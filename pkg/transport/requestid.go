package transport

import (
	"context"

	"github.com/google/uuid"

	"github.com/rhuss/pforte/pkg/message"
)

// RequestIDHeader is the header that carries the request ID.
const RequestIDHeader = "X-Request-ID"

// RequestID returns middleware that assigns a unique request ID to each
// request. An ID already in the context (set by the HTTP adapter from the
// X-Request-ID header) is kept; otherwise a random UUID is generated.
// The ID is also set on the response unless the handler set one.
func RequestID() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req *message.Request) (*message.Response, error) {
			id := RequestIDFromContext(ctx)
			if id == "" {
				id = uuid.NewString()
				ctx = ContextWithRequestID(ctx, id)
			}
			resp, err := next.Handle(ctx, req)
			if resp != nil {
				if _, ok := resp.Header(RequestIDHeader); !ok {
					resp.SetHeader(RequestIDHeader, id, true)
				}
			}
			return resp, err
		})
	}
}
