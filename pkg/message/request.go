package message

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/rhuss/pforte/pkg/box"
	"github.com/tidwall/gjson"
)

// Input is the raw inbound data a host transport hands to NewRequest.
// Every field is optional.
type Input struct {
	Query   url.Values
	Form    url.Values
	RawBody []byte
	Files   map[string][]UploadedFile
	Server  map[string]string
	Cookies map[string]string
	Headers map[string][]string
}

// Request is a read-only snapshot of an inbound HTTP request. It is built
// once from an Input and none of its groups are replaced afterwards.
// Accessors derive their results from the server variables and never
// mutate state, so a Request may be read from several goroutines.
type Request struct {
	query   *box.Box
	form    *box.Box
	body    *box.Box
	files   *box.Box
	server  *box.Box
	cookie  *box.Box
	headers *box.Box

	rawBody     []byte
	bodyDecoded bool
}

// NewRequest builds a Request from in. The raw body is decoded as JSON
// only when it is non-empty and valid; otherwise the body group is empty.
// Decoding never fails. When in.Headers is empty, headers are derived from
// HTTP_* server variables.
func NewRequest(in Input) *Request {
	raw := make([]byte, len(in.RawBody))
	copy(raw, in.RawBody)

	body, decoded := decodeBody(raw)

	headers := in.Headers
	if len(headers) == 0 {
		headers = headersFromServer(in.Server)
	}

	return &Request{
		query:       box.FromValues(in.Query),
		form:        box.FromValues(in.Form),
		body:        body,
		files:       filesBox(in.Files),
		server:      box.FromStrings(in.Server),
		cookie:      box.FromStrings(in.Cookies),
		headers:     headersBox(headers),
		rawBody:     raw,
		bodyDecoded: decoded,
	}
}

// decodeBody parses raw as a JSON document. Objects keep their key order;
// a top-level array is keyed by element index. Anything else, including
// invalid JSON, yields an empty Box.
func decodeBody(raw []byte) (*box.Box, bool) {
	if len(strings.TrimSpace(string(raw))) == 0 || !gjson.ValidBytes(raw) {
		return box.Empty(), false
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() && !doc.IsArray() {
		return box.Empty(), false
	}

	var pairs []box.Pair
	doc.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if doc.IsArray() {
			k = strconv.Itoa(len(pairs))
		}
		pairs = append(pairs, box.Pair{Key: k, Value: value.Value()})
		return true
	})
	return box.New(pairs...), true
}

func filesBox(files map[string][]UploadedFile) *box.Box {
	m := make(map[string]any, len(files))
	for field, list := range files {
		switch len(list) {
		case 0:
		case 1:
			m[field] = list[0]
		default:
			cp := make([]UploadedFile, len(list))
			copy(cp, list)
			m[field] = cp
		}
	}
	return box.FromMap(m)
}

func headersBox(h map[string][]string) *box.Box {
	merged := make(map[string][]string, len(h))
	var order []string
	for _, name := range sortedKeys(h) {
		key := NormalizeHeaderName(name)
		if _, ok := merged[key]; !ok {
			order = append(order, key)
		}
		merged[key] = append(merged[key], h[name]...)
	}
	pairs := make([]box.Pair, 0, len(order))
	for _, key := range order {
		pairs = append(pairs, box.Pair{Key: key, Value: merged[key]})
	}
	return box.New(pairs...)
}

// headersFromServer rebuilds headers from CGI-style server variables:
// HTTP_ACCEPT_LANGUAGE becomes Accept-Language, and CONTENT_TYPE and
// CONTENT_LENGTH map to their headers.
func headersFromServer(server map[string]string) map[string][]string {
	h := make(map[string][]string)
	for k, v := range server {
		switch {
		case strings.HasPrefix(k, "HTTP_"):
			h[NormalizeHeaderName(k[len("HTTP_"):])] = []string{v}
		case k == "CONTENT_TYPE" || k == "CONTENT_LENGTH":
			if v != "" {
				h[NormalizeHeaderName(k)] = []string{v}
			}
		}
	}
	return h
}

// QueryParams returns the decoded query string parameters.
func (r *Request) QueryParams() *box.Box { return r.query }

// FormAll returns every form field.
func (r *Request) FormAll() *box.Box { return r.form }

// Form returns the form field key, or def when absent.
func (r *Request) Form(key string, def any) any {
	return r.form.Get(key, def)
}

// JSONAll returns the decoded JSON body. It is empty when the body was
// absent, empty, or not valid JSON.
func (r *Request) JSONAll() *box.Box { return r.body }

// JSON returns the top-level JSON body field key, or def when absent.
func (r *Request) JSON(key string, def any) any {
	return r.body.Get(key, def)
}

// BodyDecoded reports whether a non-empty raw body was decoded as JSON.
func (r *Request) BodyDecoded() bool { return r.bodyDecoded }

// RawBody returns a copy of the raw request body.
func (r *Request) RawBody() []byte {
	out := make([]byte, len(r.rawBody))
	copy(out, r.rawBody)
	return out
}

// Files returns the uploaded file metadata keyed by form field. A field
// with a single upload holds an UploadedFile, one with several holds
// []UploadedFile.
func (r *Request) Files() *box.Box { return r.files }

// File returns the first file uploaded under field.
func (r *Request) File(field string) (UploadedFile, bool) {
	switch v := r.files.Get(field, nil).(type) {
	case UploadedFile:
		return v, true
	case []UploadedFile:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return UploadedFile{}, false
}

// Server returns the server and environment variables.
func (r *Request) Server() *box.Box { return r.server }

// Cookies returns all cookies.
func (r *Request) Cookies() *box.Box { return r.cookie }

// Cookie returns the cookie name, or def when absent.
func (r *Request) Cookie(name, def string) string {
	return r.cookie.String(name, def)
}

// Headers returns all headers keyed by normalized name.
func (r *Request) Headers() *box.Box { return r.headers }

// Header returns a copy of the values of the header name, looked up
// case-insensitively. It returns nil when the header is absent.
func (r *Request) Header(name string) []string {
	vals, ok := r.headers.Get(NormalizeHeaderName(name), nil).([]string)
	if !ok {
		return nil
	}
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// HeaderLine returns the values of the header name joined with ", ".
func (r *Request) HeaderLine(name string) string {
	return strings.Join(r.Header(name), ", ")
}

// Method returns the upper-cased request method, GET when unknown.
func (r *Request) Method() string {
	return strings.ToUpper(r.server.String("REQUEST_METHOD", "GET"))
}

// URI returns the request URI (path and query), "/" when unknown.
func (r *Request) URI() string {
	return r.server.String("REQUEST_URI", "/")
}

// Host returns the Host header value from the server variables, falling
// back to SERVER_NAME.
func (r *Request) Host() string {
	if h := r.server.String("HTTP_HOST", ""); h != "" {
		return h
	}
	return r.server.String("SERVER_NAME", "")
}

// Scheme returns "https" when the server variables mark the request as
// secure and "http" otherwise.
func (r *Request) Scheme() string {
	if https := r.server.String("HTTPS", ""); https != "" && !strings.EqualFold(https, "off") {
		return "https"
	}
	if s := r.server.String("REQUEST_SCHEME", ""); s != "" {
		return strings.ToLower(s)
	}
	return "http"
}

// Protocol returns the server protocol, such as "HTTP/1.1".
func (r *Request) Protocol() string {
	return r.server.String("SERVER_PROTOCOL", "HTTP/1.1")
}

// URL returns the absolute request URL. Without a known host it returns
// the URI alone.
func (r *Request) URL() string {
	host := r.Host()
	if host == "" {
		return r.URI()
	}
	return r.Scheme() + "://" + host + r.URI()
}

// Path returns the path component of the URI exactly as sent, without
// percent-decoding, or "/" when empty.
func (r *Request) Path() string {
	path, _ := r.splitURI()
	if path == "" {
		return "/"
	}
	return path
}

// Query returns the raw, undecoded query string of the URI, or "" when
// there is none.
func (r *Request) Query() string {
	_, query := r.splitURI()
	return query
}

func (r *Request) splitURI() (path, query string) {
	uri := r.URI()
	if u, err := url.ParseRequestURI(uri); err == nil {
		return u.EscapedPath(), u.RawQuery
	}
	if u, err := url.Parse(uri); err == nil {
		return u.EscapedPath(), u.RawQuery
	}
	path, query, _ = strings.Cut(uri, "?")
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query = query[:i]
	}
	return path, query
}
