package errors

import (
	stderrors "errors"
	"net/http"
)

// HTTPStatus maps an error code to the status the API responds with.
// Duplicate-field conflicts answer 400, matching the behavior clients of the
// original API already depend on.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidArgument, CodeAlreadyExists, CodeFailedPrecondition:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// AsAppError unwraps err to an *AppError if one is in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
