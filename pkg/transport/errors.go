package transport

import (
	"errors"
	"net/http"

	"github.com/rhuss/pforte/pkg/api"
	"github.com/rhuss/pforte/pkg/message"
)

// HTTPStatusFromError maps an APIError type to the corresponding HTTP status
// code.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeInvalidRequest:
		if err.Code == message.ErrCodeBodyTooLarge {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	case api.ErrorTypeInvalidArgument, api.ErrorTypeRuntime, api.ErrorTypeServerError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse builds a JSON error response using the ErrorResponse
// wrapper format from pkg/api.
func ErrorResponse(apiErr *api.APIError, statusCode int) *message.Response {
	resp, err := message.JSON(api.ErrorResponse{Error: apiErr}, statusCode, nil)
	if err != nil {
		resp, _ = message.JSON(api.ErrorResponse{Error: apiErr}, http.StatusInternalServerError, nil)
	}
	return resp
}

// ResponseFromError converts a handler error into an error response,
// deriving the status code from the error type. Errors that are not
// APIErrors become server errors.
func ResponseFromError(err error) *message.Response {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		apiErr = api.NewServerError(err.Error())
	}
	return ErrorResponse(apiErr, HTTPStatusFromError(apiErr))
}
