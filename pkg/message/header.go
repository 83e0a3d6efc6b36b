package message

import (
	"fmt"
	"net/textproto"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/rhuss/pforte/pkg/api"
)

// ErrCodeInvalidHeader marks a header name or value that cannot be written
// as a single header line.
const ErrCodeInvalidHeader = "invalid_header"

// NormalizeHeaderName returns the canonical form of a header name:
// each hyphen-separated word capitalized, the rest lower case
// ("content-type" and "CONTENT-TYPE" become "Content-Type").
// Underscores are read as hyphens so CGI-style names such as X_FORWARDED_FOR
// map to X-Forwarded-For. Normalizing a normalized name returns it unchanged.
func NormalizeHeaderName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "_", "-")
	return textproto.CanonicalMIMEHeaderKey(name)
}

// headerBag holds header values under normalized names and remembers the
// order in which names were first set.
type headerBag struct {
	names  []string
	values map[string][]string
}

func newHeaderBag() *headerBag {
	return &headerBag{values: make(map[string][]string)}
}

func (h *headerBag) set(name, value string, replace bool) {
	key := NormalizeHeaderName(name)
	existing, ok := h.values[key]
	if !ok {
		h.names = append(h.names, key)
	}
	if replace || !ok {
		h.values[key] = []string{value}
		return
	}
	h.values[key] = append(existing, value)
}

func (h *headerBag) get(name string) ([]string, bool) {
	vals, ok := h.values[NormalizeHeaderName(name)]
	if !ok {
		return nil, false
	}
	out := make([]string, len(vals))
	copy(out, vals)
	return out, true
}

func (h *headerBag) del(name string) {
	key := NormalizeHeaderName(name)
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	for i, n := range h.names {
		if n == key {
			h.names = append(h.names[:i], h.names[i+1:]...)
			break
		}
	}
}

// validate checks every stored name and value against the HTTP field
// grammar. A value holding CR or LF would otherwise end its line early and
// start a header of its own.
func (h *headerBag) validate() error {
	for _, name := range h.names {
		if !httpguts.ValidHeaderFieldName(name) {
			return invalidHeader(name, fmt.Sprintf("invalid header name %q", name))
		}
		for _, v := range h.values[name] {
			if !httpguts.ValidHeaderFieldValue(v) {
				return invalidHeader(name, fmt.Sprintf("invalid value for header %s", name))
			}
		}
	}
	return nil
}

func invalidHeader(param, msg string) *api.APIError {
	e := api.NewInvalidArgumentError(param, msg)
	e.Code = ErrCodeInvalidHeader
	return e
}

func (h *headerBag) keys() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}
