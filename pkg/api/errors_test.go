package api

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestAPIErrorInterface(t *testing.T) {
	var _ error = &APIError{}
}

func TestAPIErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			"with param",
			&APIError{Type: ErrorTypeInvalidArgument, Param: "status_code", Message: "out of range"},
			"invalid_argument: out of range (param: status_code)",
		},
		{
			"without param",
			&APIError{Type: ErrorTypeRuntime, Message: "output already started"},
			"runtime_error: output already started",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("APIError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name      string
		err       *APIError
		wantType  ErrorType
		wantParam string
	}{
		{"invalid argument", NewInvalidArgumentError("status_code", "out of range"), ErrorTypeInvalidArgument, "status_code"},
		{"runtime", NewRuntimeError("headers_sent", "already sent"), ErrorTypeRuntime, ""},
		{"invalid request", NewInvalidRequestError("body", "too large"), ErrorTypeInvalidRequest, "body"},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound, ""},
		{"server error", NewServerError("internal failure"), ErrorTypeServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", tt.err.Type, tt.wantType)
			}
			if tt.err.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", tt.err.Param, tt.wantParam)
			}
		})
	}
}

func TestIsTypeUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("sending response: %w", NewRuntimeError("headers_sent", "already sent"))

	if !IsRuntime(wrapped) {
		t.Error("IsRuntime should see through wrapping")
	}
	if IsInvalidArgument(wrapped) {
		t.Error("IsInvalidArgument should be false for a runtime error")
	}
	if IsRuntime(fmt.Errorf("plain")) {
		t.Error("IsRuntime should be false for a non-API error")
	}
}

func TestErrorResponseJSON(t *testing.T) {
	resp := ErrorResponse{Error: NewInvalidArgumentError("status_code", "out of range")}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"error":{"type":"invalid_argument","param":"status_code","message":"out of range"}}`
	if string(data) != want {
		t.Errorf("JSON = %s, want %s", data, want)
	}
}
