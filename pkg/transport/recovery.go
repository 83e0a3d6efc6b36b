package transport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rhuss/pforte/pkg/api"
	"github.com/rhuss/pforte/pkg/message"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to server errors. The server continues to accept new
// requests after a panic is recovered.
func Recovery() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req *message.Request) (resp *message.Response, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					slog.ErrorContext(ctx, "handler panic",
						slog.String("request_id", RequestIDFromContext(ctx)),
						slog.Any("panic", r))
					resp = nil
					retErr = api.NewServerError(fmt.Sprintf("internal server error: %v", r))
				}
			}()
			return next.Handle(ctx, req)
		})
	}
}
