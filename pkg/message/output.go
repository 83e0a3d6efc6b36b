package message

import (
	"bufio"
	"fmt"
	"io"
	"net/http"

	"github.com/rhuss/pforte/pkg/api"
)

// ErrCodeInterimStatus marks a 1xx final status that net/http would send
// as an interim response.
const ErrCodeInterimStatus = "interim_status"

// Output is the transport a Response is sent through. It accepts a status
// line, a sequence of header lines, and a body, and reports whether
// anything has been written yet.
type Output interface {
	// Started reports whether output has begun. A Response refuses to
	// send into an output that has started.
	Started() bool

	WriteStatusLine(protocol string, code int, phrase string) error
	WriteHeaderLine(name, value string) error

	// WriteBody ends the header block and writes the body. It is called
	// exactly once per send, also for an empty body.
	WriteBody(body []byte) error
}

// StreamOutput writes HTTP/1.x wire text to an io.Writer. It suits raw
// connections, CGI-style stdout, and tests.
type StreamOutput struct {
	w       *bufio.Writer
	started bool
}

// NewStreamOutput returns an Output that writes to w.
func NewStreamOutput(w io.Writer) *StreamOutput {
	return &StreamOutput{w: bufio.NewWriter(w)}
}

// Started reports whether any line has been written.
func (o *StreamOutput) Started() bool {
	return o.started
}

// WriteStatusLine writes "HTTP/<protocol> <code> <phrase>".
func (o *StreamOutput) WriteStatusLine(protocol string, code int, phrase string) error {
	o.started = true
	_, err := fmt.Fprintf(o.w, "HTTP/%s %d %s\r\n", protocol, code, phrase)
	return err
}

// WriteHeaderLine writes a single "Name: value" line.
func (o *StreamOutput) WriteHeaderLine(name, value string) error {
	o.started = true
	_, err := fmt.Fprintf(o.w, "%s: %s\r\n", name, value)
	return err
}

// WriteBody terminates the header block, writes body and flushes.
func (o *StreamOutput) WriteBody(body []byte) error {
	o.started = true
	if _, err := o.w.WriteString("\r\n"); err != nil {
		return err
	}
	if _, err := o.w.Write(body); err != nil {
		return err
	}
	return o.w.Flush()
}

// writtenReporter is implemented by ResponseWriter wrappers that track
// whether the header has been flushed.
type writtenReporter interface {
	Written() bool
}

// HTTPOutput writes into a net/http ResponseWriter. The status code is held
// back until WriteBody so that header lines can still be staged; the
// reason phrase is chosen by net/http itself.
type HTTPOutput struct {
	w       http.ResponseWriter
	code    int
	started bool
}

// NewHTTPOutput returns an Output that writes to w.
func NewHTTPOutput(w http.ResponseWriter) *HTTPOutput {
	return &HTTPOutput{w: w, code: http.StatusOK}
}

// Started reports whether this output has flushed its header, or whether
// the wrapped writer reports having written one.
func (o *HTTPOutput) Started() bool {
	if o.started {
		return true
	}
	if wr, ok := o.w.(writtenReporter); ok {
		return wr.Written()
	}
	return false
}

// WriteStatusLine records the status code for the header flush. net/http
// treats 1xx codes as interim responses and would follow them with a 200,
// so they are refused here.
func (o *HTTPOutput) WriteStatusLine(_ string, code int, _ string) error {
	if code < http.StatusOK {
		return api.NewRuntimeError(ErrCodeInterimStatus,
			fmt.Sprintf("status %d cannot be sent as a final response through net/http", code))
	}
	o.code = code
	return nil
}

// WriteHeaderLine adds a header value to the pending header map.
func (o *HTTPOutput) WriteHeaderLine(name, value string) error {
	o.w.Header().Add(name, value)
	return nil
}

// WriteBody flushes the status and headers and writes body.
func (o *HTTPOutput) WriteBody(body []byte) error {
	o.started = true
	o.w.WriteHeader(o.code)
	if len(body) == 0 {
		return nil
	}
	_, err := o.w.Write(body)
	return err
}
