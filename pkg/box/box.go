package box

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
)

// Pair is a single key-value entry used to build a Box.
type Pair struct {
	Key   string
	Value any
}

// Box is an ordered, read-only key-value container.
// The zero value is an empty Box ready for lookups.
type Box struct {
	keys   []string
	values map[string]any
}

// New creates a Box from the given pairs. A repeated key keeps its first
// position and takes the last value.
func New(pairs ...Pair) *Box {
	b := &Box{values: make(map[string]any, len(pairs))}
	for _, p := range pairs {
		if _, ok := b.values[p.Key]; !ok {
			b.keys = append(b.keys, p.Key)
		}
		b.values[p.Key] = p.Value
	}
	return b
}

// Empty returns a Box with no entries.
func Empty() *Box {
	return New()
}

// FromMap creates a Box from a map. Go maps are unordered, so keys are
// sorted to give a deterministic order.
func FromMap(m map[string]any) *Box {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: k, Value: m[k]})
	}
	return New(pairs...)
}

// FromStrings creates a Box from a map of string values with sorted keys.
func FromStrings(m map[string]string) *Box {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: k, Value: m[k]})
	}
	return New(pairs...)
}

// FromValues creates a Box from url.Values. A key with a single value is
// stored as a string; a key with several values is stored as []string.
func FromValues(v url.Values) *Box {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		vals := v[k]
		switch len(vals) {
		case 0:
			pairs = append(pairs, Pair{Key: k, Value: ""})
		case 1:
			pairs = append(pairs, Pair{Key: k, Value: vals[0]})
		default:
			cp := make([]string, len(vals))
			copy(cp, vals)
			pairs = append(pairs, Pair{Key: k, Value: cp})
		}
	}
	return New(pairs...)
}

// Get returns the value stored under key, or def when the key is absent.
func (b *Box) Get(key string, def any) any {
	if b == nil {
		return def
	}
	if v, ok := b.values[key]; ok {
		return v
	}
	return def
}

// Lookup returns the value stored under key and whether it was present.
func (b *Box) Lookup(key string) (any, bool) {
	if b == nil {
		return nil, false
	}
	v, ok := b.values[key]
	return v, ok
}

// String returns the value under key formatted as a string, or def when
// the key is absent or holds nil.
func (b *Box) String(key, def string) string {
	v, ok := b.Lookup(key)
	if !ok || v == nil {
		return def
	}
	switch s := v.(type) {
	case string:
		return s
	case []string:
		if len(s) == 0 {
			return def
		}
		return s[0]
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}

// Has reports whether key is present.
func (b *Box) Has(key string) bool {
	_, ok := b.Lookup(key)
	return ok
}

// Len returns the number of entries.
func (b *Box) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// Keys returns the keys in insertion order.
func (b *Box) Keys() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// All returns a copy of the entries as a map. Mutating the returned map
// does not affect the Box.
func (b *Box) All() map[string]any {
	out := make(map[string]any, b.Len())
	if b == nil {
		return out
	}
	for _, k := range b.keys {
		out[k] = b.values[k]
	}
	return out
}

// Each calls fn for every entry in insertion order until fn returns false.
func (b *Box) Each(fn func(key string, value any) bool) {
	if b == nil {
		return
	}
	for _, k := range b.keys {
		if !fn(k, b.values[k]) {
			return
		}
	}
}

// MarshalJSON encodes the Box as a JSON object with keys in insertion order.
func (b *Box) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(b.values[k])
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
