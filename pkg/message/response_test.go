package message

import (
	"bytes"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/rhuss/pforte/pkg/api"
)

func TestNewDefaults(t *testing.T) {
	r := New()

	if r.StatusCode() != http.StatusOK {
		t.Errorf("StatusCode() = %d, want 200", r.StatusCode())
	}
	if r.Body() != "" {
		t.Errorf("Body() = %q, want empty", r.Body())
	}
	if len(r.HeaderNames()) != 0 {
		t.Errorf("HeaderNames() = %v, want none", r.HeaderNames())
	}
	if r.ProtocolVersion() != "1.1" {
		t.Errorf("ProtocolVersion() = %q, want 1.1", r.ProtocolVersion())
	}
}

func TestNewResponseRejectsInvalidCode(t *testing.T) {
	for _, code := range []int{-1, 99, 600, 1000} {
		r, err := NewResponse("x", code, nil)
		if r != nil {
			t.Errorf("NewResponse(code=%d) returned a response", code)
		}
		if !api.IsInvalidArgument(err) {
			t.Errorf("NewResponse(code=%d) error = %v, want invalid_argument", code, err)
		}
	}
}

func TestNewResponseHeaders(t *testing.T) {
	r, err := NewResponse("hello", http.StatusCreated, map[string][]string{
		"set-cookie": {"a=1", "b=2"},
		"x-one":      {"1"},
	})
	if err != nil {
		t.Fatalf("NewResponse error: %v", err)
	}
	if r.StatusCode() != http.StatusCreated {
		t.Errorf("StatusCode() = %d, want 201", r.StatusCode())
	}
	if got, _ := r.Header("Set-Cookie"); !reflect.DeepEqual(got, []string{"a=1", "b=2"}) {
		t.Errorf("Set-Cookie = %v, want [a=1 b=2]", got)
	}
}

func TestSetStatusCodeRange(t *testing.T) {
	r := New()
	for code := 100; code < 600; code++ {
		if err := r.SetStatusCode(code); err != nil {
			t.Fatalf("SetStatusCode(%d) error: %v", code, err)
		}
		if r.StatusCode() != code {
			t.Fatalf("StatusCode() = %d, want %d", r.StatusCode(), code)
		}
	}

	r.SetStatusCode(http.StatusAccepted)
	for _, code := range []int{math.MinInt, -200, 0, 99, 600, 601, math.MaxInt} {
		err := r.SetStatusCode(code)
		if !api.IsInvalidArgument(err) {
			t.Errorf("SetStatusCode(%d) error = %v, want invalid_argument", code, err)
		}
		if r.StatusCode() != http.StatusAccepted {
			t.Errorf("failed SetStatusCode(%d) changed code to %d", code, r.StatusCode())
		}
	}
}

func TestSetHeaderReplaceAndAppend(t *testing.T) {
	r := New()
	r.SetHeader("X-Foo", "a", true)
	r.SetHeader("X-Foo", "b", false)

	if got, _ := r.Header("X-Foo"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("after append X-Foo = %v, want [a b]", got)
	}

	r.SetHeader("X-Foo", "b", true)
	if got, _ := r.Header("x-foo"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("after replace X-Foo = %v, want [b]", got)
	}
}

func TestHeaderLookupIsCaseInsensitive(t *testing.T) {
	r := New().SetHeader("content-type", "text/plain", true)

	for _, name := range []string{"content-type", "Content-Type", "CONTENT-TYPE"} {
		got, ok := r.Header(name)
		if !ok || !reflect.DeepEqual(got, []string{"text/plain"}) {
			t.Errorf("Header(%q) = %v, %v", name, got, ok)
		}
	}
	if want := []string{"Content-Type"}; !reflect.DeepEqual(r.HeaderNames(), want) {
		t.Errorf("HeaderNames() = %v, want %v", r.HeaderNames(), want)
	}
	if _, ok := r.Header("X-Missing"); ok {
		t.Error("Header(X-Missing) reported present")
	}
}

func TestHeaderReturnsCopy(t *testing.T) {
	r := New().SetHeader("X-Foo", "a", true)

	got, _ := r.Header("X-Foo")
	got[0] = "mutated"

	if again, _ := r.Header("X-Foo"); again[0] != "a" {
		t.Errorf("Header mutated through returned slice: %v", again)
	}
}

func TestSetHeadersReplaces(t *testing.T) {
	r := New().AddHeader("Accept", "a").AddHeader("Accept", "b")
	r.SetHeaders(map[string]string{"accept": "c", "x-bar": "1"})

	if got, _ := r.Header("Accept"); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("Accept = %v, want [c]", got)
	}
	if got, _ := r.Header("X-Bar"); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("X-Bar = %v, want [1]", got)
	}
}

func TestJSONHelper(t *testing.T) {
	r, err := JSON(map[string]any{"a": 1}, 0, nil)
	if err != nil {
		t.Fatalf("JSON error: %v", err)
	}
	if r.Body() != `{"a":1}` {
		t.Errorf("Body() = %q, want {\"a\":1}", r.Body())
	}
	if r.StatusCode() != http.StatusOK {
		t.Errorf("StatusCode() = %d, want 200", r.StatusCode())
	}
	if got, _ := r.Header("Content-Type"); !reflect.DeepEqual(got, []string{"application/json"}) {
		t.Errorf("Content-Type = %v, want [application/json]", got)
	}
}

func TestJSONHelperEncodeFailureFallsBack(t *testing.T) {
	r, err := JSON(map[string]any{"ch": make(chan int)}, http.StatusTeapot, map[string]string{"X-Extra": "1"})
	if err != nil {
		t.Fatalf("JSON error: %v", err)
	}
	if r.Body() != "{}" {
		t.Errorf("Body() = %q, want {}", r.Body())
	}
	if r.StatusCode() != http.StatusTeapot {
		t.Errorf("StatusCode() = %d, want 418", r.StatusCode())
	}
	if _, ok := r.Header("X-Extra"); !ok {
		t.Error("extra header missing")
	}
}

func TestJSONHelperInvalidCode(t *testing.T) {
	if _, err := JSON(nil, 42, nil); !api.IsInvalidArgument(err) {
		t.Errorf("JSON(code=42) error = %v, want invalid_argument", err)
	}
}

func TestRedirect(t *testing.T) {
	r, err := Redirect("/login", 0, nil)
	if err != nil {
		t.Fatalf("Redirect error: %v", err)
	}
	if r.StatusCode() != http.StatusFound {
		t.Errorf("StatusCode() = %d, want 302", r.StatusCode())
	}
	if r.Body() != "" {
		t.Errorf("Body() = %q, want empty", r.Body())
	}
	if got, _ := r.Header("Location"); !reflect.DeepEqual(got, []string{"/login"}) {
		t.Errorf("Location = %v, want [/login]", got)
	}

	r, err = Redirect("https://example.com/", http.StatusMovedPermanently, map[string]string{"Location": "/ignored"})
	if err != nil {
		t.Fatalf("Redirect error: %v", err)
	}
	if got, _ := r.Header("Location"); !reflect.DeepEqual(got, []string{"https://example.com/"}) {
		t.Errorf("Location = %v, want the explicit location", got)
	}
}

func TestSendWritesWireFormat(t *testing.T) {
	r, _ := NewResponse("hello", http.StatusNotFound, nil)
	r.SetHeader("Content-Type", "text/plain", true)
	r.SetHeader("Set-Cookie", "a=1", false)
	r.SetHeader("Set-Cookie", "b=2", false)

	var buf bytes.Buffer
	if err := r.Send(NewStreamOutput(&buf)); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	want := "HTTP/1.1 404 Not Found\r\n" +
		"Content-Type: text/plain\r\n" +
		"Set-Cookie: a=1\r\n" +
		"Set-Cookie: b=2\r\n" +
		"\r\n" +
		"hello"
	if buf.String() != want {
		t.Errorf("wire output = %q, want %q", buf.String(), want)
	}
	if !r.Sent() {
		t.Error("Sent() = false after Send")
	}
}

func TestSendUnknownStatusPhrase(t *testing.T) {
	r, _ := NewResponse("", 299, nil)
	r.SetProtocolVersion("1.0")

	var buf bytes.Buffer
	if err := r.Send(NewStreamOutput(&buf)); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if want := "HTTP/1.0 299 Unknown Status\r\n\r\n"; buf.String() != want {
		t.Errorf("wire output = %q, want %q", buf.String(), want)
	}
}

func TestSendTwiceFails(t *testing.T) {
	r := New().SetBody("once")

	var buf bytes.Buffer
	if err := r.Send(NewStreamOutput(&buf)); err != nil {
		t.Fatalf("first Send error: %v", err)
	}
	written := buf.Len()

	err := r.Send(NewStreamOutput(&buf))
	if !api.IsRuntime(err) {
		t.Fatalf("second Send error = %v, want runtime_error", err)
	}
	if buf.Len() != written {
		t.Error("second Send wrote output")
	}
}

func TestSendAfterOutputStartedFails(t *testing.T) {
	var buf bytes.Buffer
	out := NewStreamOutput(&buf)

	if err := New().SetBody("first").Send(out); err != nil {
		t.Fatalf("first Send error: %v", err)
	}

	second := New().SetBody("second")
	err := second.Send(out)
	if !api.IsRuntime(err) {
		t.Fatalf("Send on started output error = %v, want runtime_error", err)
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Code != "headers_sent" {
		t.Errorf("error code = %q, want headers_sent", apiErr.Code)
	}
	if second.Sent() {
		t.Error("blocked response marked as sent")
	}
}

func TestSendThroughHTTPOutput(t *testing.T) {
	r, _ := JSON(map[string]string{"ok": "yes"}, http.StatusCreated, nil)
	r.AddHeader("X-Multi", "1").AddHeader("X-Multi", "2")

	rec := httptest.NewRecorder()
	out := NewHTTPOutput(rec)
	if err := r.Send(out); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := rec.Header().Values("X-Multi"); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Errorf("X-Multi = %v, want [1 2]", got)
	}
	if rec.Body.String() != `{"ok":"yes"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
	if !out.Started() {
		t.Error("output not started after Send")
	}
	if err := New().Send(out); !api.IsRuntime(err) {
		t.Errorf("Send on started HTTP output error = %v, want runtime_error", err)
	}
}

func TestSendRejectsInvalidHeaderFields(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "CRLF in value", key: "X-Note", value: "a\r\nSet-Cookie: session=evil"},
		{name: "bare LF in value", key: "X-Note", value: "a\nb"},
		{name: "NUL in value", key: "X-Note", value: "a\x00b"},
		{name: "space in name", key: "x foo", value: "1"},
		{name: "colon in name", key: "X-Bad:Name", value: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New().SetHeader(tt.key, tt.value, true).SetBody("payload")

			var buf bytes.Buffer
			err := r.Send(NewStreamOutput(&buf))
			if !api.IsInvalidArgument(err) {
				t.Fatalf("Send error = %v, want invalid_argument", err)
			}
			var apiErr *api.APIError
			if errors.As(err, &apiErr) && apiErr.Code != ErrCodeInvalidHeader {
				t.Errorf("error code = %q, want %q", apiErr.Code, ErrCodeInvalidHeader)
			}
			if buf.Len() != 0 {
				t.Errorf("wrote %q, want nothing", buf.String())
			}
			if r.Sent() {
				t.Error("rejected response marked as sent")
			}
		})
	}
}

func TestSendAfterFixingInvalidHeader(t *testing.T) {
	r := New().SetHeader("X-Note", "a\r\nSet-Cookie: session=evil", true)

	var buf bytes.Buffer
	if err := r.Send(NewStreamOutput(&buf)); err == nil {
		t.Fatal("Send accepted a header value with CRLF")
	}

	r.SetHeader("X-Note", "a", true)
	if err := r.Send(NewStreamOutput(&buf)); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	want := "HTTP/1.1 200 OK\r\nX-Note: a\r\n\r\n"
	if buf.String() != want {
		t.Errorf("wire = %q, want %q", buf.String(), want)
	}
}

func TestRedirectRejectsControlCharacters(t *testing.T) {
	for _, loc := range []string{"/next\r\nSet-Cookie: a=1", "/next\n", "/a\x7fb"} {
		r, err := Redirect(loc, 0, nil)
		if !api.IsInvalidArgument(err) {
			t.Errorf("Redirect(%q) error = %v, want invalid_argument", loc, err)
		}
		if r != nil {
			t.Errorf("Redirect(%q) returned a response", loc)
		}
	}
}
