package message

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"golang.org/x/net/http/httpguts"

	"github.com/rhuss/pforte/pkg/api"
	"github.com/rhuss/pforte/pkg/debug"
)

// DefaultProtocolVersion is the HTTP version written in the status line.
const DefaultProtocolVersion = "1.1"

// Response is a mutable builder for an outbound HTTP response. It is
// changed through its setters and consumed exactly once by Send.
// A Response is not safe for concurrent use.
type Response struct {
	statusCode int
	protocol   string
	headers    *headerBag
	body       string
	sent       bool
}

// New returns a Response with an empty body, status 200 and no headers.
func New() *Response {
	return &Response{
		statusCode: http.StatusOK,
		protocol:   DefaultProtocolVersion,
		headers:    newHeaderBag(),
	}
}

// NewResponse returns a Response with the given body, status code and
// headers. A code of 0 selects 200. Multi-value headers keep their order.
// It fails with an invalid_argument error when code is outside [100, 600).
func NewResponse(body string, code int, headers map[string][]string) (*Response, error) {
	r := New()
	r.body = body
	if code != 0 {
		if err := r.SetStatusCode(code); err != nil {
			return nil, err
		}
	}
	for _, name := range sortedKeys(headers) {
		for _, v := range headers[name] {
			r.headers.set(name, v, false)
		}
	}
	return r, nil
}

// StatusCode returns the status code.
func (r *Response) StatusCode() int {
	return r.statusCode
}

// SetStatusCode sets the status code. It fails with an invalid_argument
// error when code is outside [100, 600) and leaves the response unchanged.
func (r *Response) SetStatusCode(code int) error {
	if !ValidStatusCode(code) {
		return api.NewInvalidArgumentError("status_code",
			fmt.Sprintf("status code %d is not in range [100, 600)", code))
	}
	r.statusCode = code
	return nil
}

// ReasonPhrase returns the reason phrase for the current status code.
func (r *Response) ReasonPhrase() string {
	return StatusText(r.statusCode)
}

// ProtocolVersion returns the HTTP version used in the status line.
func (r *Response) ProtocolVersion() string {
	return r.protocol
}

// SetProtocolVersion sets the HTTP version used in the status line, such as "1.0".
func (r *Response) SetProtocolVersion(v string) *Response {
	if v != "" {
		r.protocol = v
	}
	return r
}

// SetHeaders sets each header in m, replacing existing values. Names are
// applied in sorted order so header order on the wire is deterministic.
func (r *Response) SetHeaders(m map[string]string) *Response {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.headers.set(name, m[name], true)
	}
	return r
}

// SetHeader stores value under the normalized form of name. With replace
// set, existing values are overwritten; otherwise value is appended.
func (r *Response) SetHeader(name, value string, replace bool) *Response {
	r.headers.set(name, value, replace)
	return r
}

// AddHeader appends value to the header name. It is shorthand for
// SetHeader(name, value, false).
func (r *Response) AddHeader(name, value string) *Response {
	return r.SetHeader(name, value, false)
}

// DelHeader removes all values of the header name.
func (r *Response) DelHeader(name string) *Response {
	r.headers.del(name)
	return r
}

// Header returns a copy of the values stored for name, looked up
// case-insensitively. The boolean is false when the header is absent.
func (r *Response) Header(name string) ([]string, bool) {
	return r.headers.get(name)
}

// HeaderNames returns the normalized header names in the order they were
// first set.
func (r *Response) HeaderNames() []string {
	return r.headers.keys()
}

// Headers returns a copy of all headers.
func (r *Response) Headers() map[string][]string {
	out := make(map[string][]string, len(r.headers.names))
	for _, name := range r.headers.names {
		out[name], _ = r.headers.get(name)
	}
	return out
}

// Body returns the body.
func (r *Response) Body() string {
	return r.body
}

// SetBody replaces the body.
func (r *Response) SetBody(body string) *Response {
	r.body = body
	return r
}

// Sent reports whether Send has completed its pre-send check.
func (r *Response) Sent() bool {
	return r.sent
}

// Send writes the status line, every header value as its own line, and
// the body to out. It fails with a runtime_error when this response was
// already sent or when out has already started, and with an
// invalid_argument error when a header name or value is not a valid HTTP
// field. Nothing is written in those cases. After Send the response is consumed; further mutation has
// no effect on what was written.
func (r *Response) Send(out Output) error {
	if r.sent {
		return api.NewRuntimeError("already_sent", "response has already been sent")
	}
	if out.Started() {
		return api.NewRuntimeError("headers_sent", "cannot send response: output has already started")
	}
	if err := r.headers.validate(); err != nil {
		return err
	}
	r.sent = true

	debug.Log("response", "sending response",
		"status", r.statusCode, "headers", len(r.headers.names), "body_bytes", len(r.body))

	if err := out.WriteStatusLine(r.protocol, r.statusCode, StatusText(r.statusCode)); err != nil {
		return fmt.Errorf("writing status line: %w", err)
	}
	for _, name := range r.headers.names {
		for _, v := range r.headers.values[name] {
			if err := out.WriteHeaderLine(name, v); err != nil {
				return fmt.Errorf("writing header %s: %w", name, err)
			}
		}
	}
	if err := out.WriteBody([]byte(r.body)); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}
	return nil
}

// JSON returns a response whose body is data encoded as JSON, with
// Content-Type set to application/json. A code of 0 selects 200. When data
// cannot be encoded the body falls back to "{}" and no error is returned;
// the only error is an invalid status code.
func JSON(data any, code int, headers map[string]string) (*Response, error) {
	if code == 0 {
		code = http.StatusOK
	}
	body, err := json.Marshal(data)
	if err != nil {
		debug.Log("response", "json encoding failed, substituting empty object", "error", err)
		body = []byte("{}")
	}

	r, err := NewResponse(string(body), code, nil)
	if err != nil {
		return nil, err
	}
	r.SetHeader("Content-Type", "application/json", true)
	r.SetHeaders(headers)
	return r, nil
}

// Redirect returns an empty-body response with a Location header. A code
// of 0 selects 302. A location containing control characters such as CR
// or LF is rejected with an invalid_argument error.
func Redirect(location string, code int, headers map[string]string) (*Response, error) {
	if !httpguts.ValidHeaderFieldValue(location) {
		return nil, invalidHeader("location", "redirect location contains invalid characters")
	}
	if code == 0 {
		code = http.StatusFound
	}
	r, err := NewResponse("", code, nil)
	if err != nil {
		return nil, err
	}
	r.SetHeaders(headers)
	r.SetHeader("Location", location, true)
	return r, nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
