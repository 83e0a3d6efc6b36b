package message

import (
	"reflect"
	"testing"
)

func TestNormalizeHeaderName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"content-type", "Content-Type"},
		{"Content-Type", "Content-Type"},
		{"CONTENT-TYPE", "Content-Type"},
		{"x-request-id", "X-Request-Id"},
		{"location", "Location"},
		{"X_FORWARDED_FOR", "X-Forwarded-For"},
		{"  accept ", "Accept"},
	}
	for _, tt := range tests {
		got := NormalizeHeaderName(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeHeaderName(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := NormalizeHeaderName(got); again != got {
			t.Errorf("NormalizeHeaderName not idempotent: %q -> %q", got, again)
		}
	}
}

func TestHeaderBag(t *testing.T) {
	h := newHeaderBag()
	h.set("x-foo", "a", true)
	h.set("Accept", "text/html", true)
	h.set("X-FOO", "b", false)

	if got, _ := h.get("X-Foo"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("X-Foo = %v, want [a b]", got)
	}
	if want := []string{"X-Foo", "Accept"}; !reflect.DeepEqual(h.keys(), want) {
		t.Errorf("keys = %v, want %v", h.keys(), want)
	}

	h.del("x-foo")
	if _, ok := h.get("X-Foo"); ok {
		t.Error("X-Foo should be deleted")
	}
	if want := []string{"Accept"}; !reflect.DeepEqual(h.keys(), want) {
		t.Errorf("keys after delete = %v, want %v", h.keys(), want)
	}
}
