package transport

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/rhuss/pforte/pkg/api"
	"github.com/rhuss/pforte/pkg/message"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        *api.APIError
		wantStatus int
	}{
		{"invalid_request -> 400", &api.APIError{Type: api.ErrorTypeInvalidRequest}, http.StatusBadRequest},
		{"body too large -> 413", &api.APIError{Type: api.ErrorTypeInvalidRequest, Code: message.ErrCodeBodyTooLarge}, http.StatusRequestEntityTooLarge},
		{"not_found -> 404", &api.APIError{Type: api.ErrorTypeNotFound}, http.StatusNotFound},
		{"invalid_argument -> 500", &api.APIError{Type: api.ErrorTypeInvalidArgument}, http.StatusInternalServerError},
		{"runtime_error -> 500", &api.APIError{Type: api.ErrorTypeRuntime}, http.StatusInternalServerError},
		{"server_error -> 500", &api.APIError{Type: api.ErrorTypeServerError}, http.StatusInternalServerError},
		{"unknown type -> 500", &api.APIError{Type: api.ErrorType("unknown")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusFromError(tt.err); got != tt.wantStatus {
				t.Errorf("HTTPStatusFromError(%q) = %d, want %d", tt.err.Type, got, tt.wantStatus)
			}
		})
	}
}

func TestErrorResponse(t *testing.T) {
	resp := ErrorResponse(api.NewInvalidRequestError("body", "bad"), http.StatusBadRequest)

	if resp.StatusCode() != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode())
	}
	if ct, _ := resp.Header("Content-Type"); !reflect.DeepEqual(ct, []string{"application/json"}) {
		t.Errorf("Content-Type = %v", ct)
	}
	want := `{"error":{"type":"invalid_request","param":"body","message":"bad"}}`
	if resp.Body() != want {
		t.Errorf("body = %s, want %s", resp.Body(), want)
	}
}

func TestErrorResponseInvalidStatusFallsBackTo500(t *testing.T) {
	resp := ErrorResponse(api.NewServerError("x"), 42)

	if resp.StatusCode() != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode())
	}
}

func TestResponseFromError(t *testing.T) {
	resp := ResponseFromError(errors.New("boom"))
	if resp.StatusCode() != http.StatusInternalServerError {
		t.Errorf("plain error status = %d, want 500", resp.StatusCode())
	}

	resp = ResponseFromError(api.NewNotFoundError("no such thing"))
	if resp.StatusCode() != http.StatusNotFound {
		t.Errorf("not_found status = %d, want 404", resp.StatusCode())
	}
}
