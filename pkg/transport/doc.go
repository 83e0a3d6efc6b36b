// Package transport defines the front-controller handler contract and the
// middleware chain that wraps it.
//
// A [Handler] receives an immutable [message.Request] and returns a
// [message.Response] (or an error). The host adapter in transport/http
// builds the request, runs the chain, and sends the response exactly once.
// There is no routing: one handler sees every request.
//
// # Middleware
//
// Built-in middleware provides panic recovery, request ID assignment
// (X-Request-ID, generated with github.com/google/uuid), and structured
// logging via log/slog. Custom middleware composes with [Chain].
//
// # Errors
//
// Handler errors are converted into JSON error responses by
// [ResponseFromError]; an *api.APIError keeps its type, any other error
// becomes a server_error.
package transport
