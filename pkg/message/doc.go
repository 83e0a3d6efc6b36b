// Package message provides the request and response value objects a front
// controller is built from.
//
// A [Request] is an immutable snapshot of inbound data. Hosts construct it
// explicitly, either from raw data with [NewRequest] or from a net/http
// request with [FromHTTP]; nothing in this package reads process-global
// state.
//
//	req, err := message.FromHTTP(r, message.ParseOptions{})
//	name := req.JSON("name", "anonymous")
//	path := req.Path() // "/users/1" for "/users/1?active=true"
//
// A [Response] is a mutable builder that is consumed once by
// [Response.Send] through an [Output]:
//
//	resp, _ := message.JSON(map[string]any{"ok": true}, http.StatusOK, nil)
//	resp.SetHeader("Cache-Control", "no-store", true)
//	err := resp.Send(message.NewHTTPOutput(w))
//
// Two JSON policies are deliberate and kept for compatibility: an absent or
// malformed request body decodes to an empty group without an error, and a
// value that cannot be encoded by [JSON] becomes the body "{}".
package message
