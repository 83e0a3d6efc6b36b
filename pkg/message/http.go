package message

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rhuss/pforte/pkg/api"
	"github.com/rhuss/pforte/pkg/debug"
)

// ParseOptions bounds how much of an inbound net/http request FromHTTP reads.
type ParseOptions struct {
	MaxBodySize int64 // maximum raw body size in bytes; 0 means DefaultMaxBodySize
	MaxMemory   int64 // multipart bytes held in memory before spilling to disk
	MaxFileSize int64 // per-file upload limit; 0 means unlimited
}

const (
	DefaultMaxBodySize = 10 << 20 // 10 MB
	DefaultMaxMemory   = 32 << 20 // 32 MB
)

// ErrCodeBodyTooLarge is the APIError code used when the body exceeds MaxBodySize.
const ErrCodeBodyTooLarge = "body_too_large"

// FromHTTP builds a Request from a net/http request. It reads the query,
// url-encoded or multipart form, raw body, file uploads, server variables,
// cookies and headers. The only errors are transport failures: a body that
// exceeds the size limit, a read error, or a malformed multipart stream.
// Invalid JSON in the body is not an error.
func FromHTTP(r *http.Request, opts ParseOptions) (*Request, error) {
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = DefaultMaxBodySize
	}
	if opts.MaxMemory <= 0 {
		opts.MaxMemory = DefaultMaxMemory
	}

	in := Input{
		Query:   r.URL.Query(),
		Form:    url.Values{},
		Server:  serverVars(r),
		Cookies: cookieMap(r),
		Headers: headerMap(r),
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(nil, r.Body, opts.MaxBodySize)
		if err := r.ParseMultipartForm(opts.MaxMemory); err != nil {
			return nil, bodyError(err, opts.MaxBodySize)
		}
		in.Form = url.Values(r.MultipartForm.Value)
		in.Files = make(map[string][]UploadedFile, len(r.MultipartForm.File))
		for field, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				in.Files[field] = append(in.Files[field], uploadFromHeader(fh, opts.MaxFileSize))
			}
		}
	default:
		raw, err := readBody(r.Body, opts.MaxBodySize)
		if err != nil {
			return nil, err
		}
		in.RawBody = raw
		if mediaType == "application/x-www-form-urlencoded" {
			form, err := url.ParseQuery(string(raw))
			if err != nil {
				debug.Log("request", "malformed url-encoded form", "error", err)
			}
			in.Form = form
		}
	}

	req := NewRequest(in)
	debug.Log("request", "request built",
		"method", req.Method(), "uri", req.URI(),
		"form_fields", req.FormAll().Len(), "files", req.Files().Len(),
		"body_bytes", len(in.RawBody), "json", req.BodyDecoded())
	return req, nil
}

func readBody(body io.Reader, limit int64) ([]byte, error) {
	if body == nil || body == http.NoBody {
		return nil, nil
	}
	raw, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, api.NewInvalidRequestError("body", "reading request body: "+err.Error())
	}
	if int64(len(raw)) > limit {
		return nil, tooLarge(limit)
	}
	return raw, nil
}

func bodyError(err error, limit int64) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return tooLarge(limit)
	}
	return api.NewInvalidRequestError("body", "malformed multipart body: "+err.Error())
}

func tooLarge(limit int64) *api.APIError {
	e := api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", limit))
	e.Code = ErrCodeBodyTooLarge
	return e
}

// serverVars derives CGI-style server variables from r.
func serverVars(r *http.Request) map[string]string {
	// Proxy-style absolute targets are reduced to path and query.
	uri := r.RequestURI
	if !strings.HasPrefix(uri, "/") {
		uri = r.URL.RequestURI()
	}

	serverName, serverPort := splitHostPort(r.Host)
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if serverPort == "" {
		serverPort = "80"
		if scheme == "https" {
			serverPort = "443"
		}
	}
	remoteAddr, remotePort := splitHostPort(r.RemoteAddr)
	now := time.Now()

	vars := map[string]string{
		"REQUEST_METHOD":     r.Method,
		"REQUEST_URI":        uri,
		"QUERY_STRING":       r.URL.RawQuery,
		"SERVER_PROTOCOL":    r.Proto,
		"SERVER_NAME":        serverName,
		"SERVER_PORT":        serverPort,
		"REMOTE_ADDR":        remoteAddr,
		"REMOTE_PORT":        remotePort,
		"REQUEST_SCHEME":     scheme,
		"REQUEST_TIME":       strconv.FormatInt(now.Unix(), 10),
		"REQUEST_TIME_FLOAT": strconv.FormatFloat(float64(now.UnixMicro())/1e6, 'f', 6, 64),
		"HTTP_HOST":          r.Host,
	}
	if r.TLS != nil {
		vars["HTTPS"] = "on"
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		vars["CONTENT_TYPE"] = ct
	}
	if r.ContentLength > 0 {
		vars["CONTENT_LENGTH"] = strconv.FormatInt(r.ContentLength, 10)
	}
	for name, vals := range r.Header {
		key := "HTTP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		if key == "HTTP_HOST" {
			continue
		}
		vars[key] = strings.Join(vals, ", ")
	}
	return vars
}

func splitHostPort(hostport string) (host, port string) {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, ""
	}
	return host, port
}

// cookieMap returns the request cookies. The first occurrence of a name wins.
func cookieMap(r *http.Request) map[string]string {
	m := make(map[string]string)
	for _, c := range r.Cookies() {
		if _, ok := m[c.Name]; !ok {
			m[c.Name] = c.Value
		}
	}
	return m
}

// headerMap copies r.Header and restores the Host header, which net/http
// moves into r.Host.
func headerMap(r *http.Request) map[string][]string {
	h := make(map[string][]string, len(r.Header)+1)
	for name, vals := range r.Header {
		cp := make([]string, len(vals))
		copy(cp, vals)
		h[name] = cp
	}
	if r.Host != "" {
		h["Host"] = []string{r.Host}
	}
	return h
}
