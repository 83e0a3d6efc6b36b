// Package api defines the error types shared by the pforte request and
// response value objects and the transports that host them.
//
// Every error is an [APIError] carrying a type, an optional code and param,
// and a message. Callers distinguish categories with [IsInvalidArgument]
// and [IsRuntime] rather than comparing messages:
//
//   - invalid_argument: a value outside its domain (a status code outside
//     [100, 600)). Surfaced immediately, never recovered internally.
//   - runtime_error: an operation the output state forbids (sending a
//     response after output has started). Not retryable.
//
// The package has no external dependencies and performs no I/O.
package api
