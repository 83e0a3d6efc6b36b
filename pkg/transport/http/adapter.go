package http

import (
	"errors"
	"log/slog"
	"maps"
	"mime"
	"net/http"
	"slices"

	"github.com/rhuss/pforte/pkg/api"
	"github.com/rhuss/pforte/pkg/debug"
	"github.com/rhuss/pforte/pkg/message"
	"github.com/rhuss/pforte/pkg/observability"
	"github.com/rhuss/pforte/pkg/transport"
)

// Adapter serves a front-controller Handler over net/http. Every request
// goes to the same handler; the adapter builds the Request, runs the
// middleware chain, and sends the Response exactly once.
type Adapter struct {
	handler transport.Handler
	config  Config
	logger  *slog.Logger
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	Addr            string
	MaxBodySize     int64
	MaxMemory       int64
	MaxFileSize     int64
	ShutdownTimeout int // seconds

	// ProtocolVersion overrides the status line version of every response.
	ProtocolVersion string
	// DefaultHeaders are added to responses that do not set them.
	DefaultHeaders map[string]string
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MaxBodySize:     message.DefaultMaxBodySize,
		MaxMemory:       message.DefaultMaxMemory,
		ShutdownTimeout: 30,
	}
}

// NewAdapter creates an HTTP adapter for h. Middleware is applied to h in
// the given order.
func NewAdapter(h transport.Handler, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		h = transport.Chain(middlewares...)(h)
	}
	return &Adapter{
		handler: h,
		config:  cfg,
		logger:  slog.Default(),
	}
}

// Handler returns the http.Handler for this adapter. Use this to integrate
// with an http.Server or test with httptest. The returned handler includes
// HTTP-level middleware for request ID propagation.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(http.HandlerFunc(a.serve))
}

// httpRequestIDMiddleware propagates an incoming X-Request-ID header into
// the context, where the transport-level RequestID middleware picks it up.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(transport.RequestIDHeader); id != "" {
			r = r.WithContext(transport.ContextWithRequestID(r.Context(), id))
		}
		next.ServeHTTP(&trackingWriter{ResponseWriter: w}, r)
	})
}

// trackingWriter records whether the header has been flushed so that a
// Response is never sent into a writer that already produced output.
type trackingWriter struct {
	http.ResponseWriter
	written bool
}

func (w *trackingWriter) WriteHeader(statusCode int) {
	w.written = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}

// Written reports whether the header has been flushed.
func (w *trackingWriter) Written() bool {
	if w.written {
		return true
	}
	if wr, ok := w.ResponseWriter.(interface{ Written() bool }); ok {
		return wr.Written()
	}
	return false
}

func (w *trackingWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter for http.NewResponseController.
func (w *trackingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (a *Adapter) serve(w http.ResponseWriter, r *http.Request) {
	out := message.NewHTTPOutput(w)

	req, err := message.FromHTTP(r, message.ParseOptions{
		MaxBodySize: a.config.MaxBodySize,
		MaxMemory:   a.config.MaxMemory,
		MaxFileSize: a.config.MaxFileSize,
	})
	if err != nil {
		debug.Log("transport", "request rejected", "error", err)
		a.send(r, out, transport.ResponseFromError(err))
		return
	}
	if !req.BodyDecoded() && len(req.RawBody()) > 0 && isJSONRequest(req) {
		observability.BodyDecodeFailuresTotal.Inc()
	}

	resp, err := a.handler.Handle(r.Context(), req)
	if err != nil {
		resp = transport.ResponseFromError(err)
	}
	if resp == nil {
		resp, _ = message.NewResponse("", http.StatusNoContent, nil)
	}
	a.send(r, out, resp)
}

// send applies adapter defaults to resp and sends it. Send failures cannot
// be reported to the client, so they are logged and counted.
func (a *Adapter) send(r *http.Request, out message.Output, resp *message.Response) {
	if a.config.ProtocolVersion != "" {
		resp.SetProtocolVersion(a.config.ProtocolVersion)
	}
	for _, name := range slices.Sorted(maps.Keys(a.config.DefaultHeaders)) {
		if _, ok := resp.Header(name); !ok {
			resp.SetHeader(name, a.config.DefaultHeaders[name], true)
		}
	}

	err := resp.Send(out)
	if err == nil {
		return
	}
	a.sendFailed(r, err)

	// A response rejected before anything reached the wire is replaced by
	// an error response so the client does not see an empty 200.
	if out.Started() {
		return
	}
	if err := transport.ResponseFromError(err).Send(out); err != nil {
		a.sendFailed(r, err)
	}
}

func (a *Adapter) sendFailed(r *http.Request, err error) {
	reason := "write_error"
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		reason = apiErr.Code
	}
	observability.SendFailuresTotal.WithLabelValues(reason).Inc()
	a.logger.ErrorContext(r.Context(), "sending response failed",
		slog.String("request_id", transport.RequestIDFromContext(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()))
}

// isJSONRequest reports whether the request declares a JSON body, or
// declares no content type at all.
func isJSONRequest(req *message.Request) bool {
	ct := req.HeaderLine("Content-Type")
	if ct == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	return err == nil && mediaType == "application/json"
}
