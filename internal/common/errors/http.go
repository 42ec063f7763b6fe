package errors

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the envelope every failed API call renders.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// HTTPStatus maps an error code onto the status the API answers with.
// CONFLICT is answered with 400 to keep the client contract of the
// application endpoints.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeInvalidInput, ErrCodeValidationFailed, ErrCodeConflict:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeIndexNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as an ErrorResponse. A server-side failure carries
// the message of the error that triggered it.
func WriteError(w http.ResponseWriter, err error) {
	stdErr := AsStandard(err)
	status := HTTPStatus(stdErr.Code)

	message := stdErr.Message
	if status == http.StatusInternalServerError && stdErr.Details != "" {
		message = stdErr.Message + ": " + stdErr.Details
	}

	WriteJSON(w, status, ErrorResponse{
		Success: false,
		Message: message,
		Errors:  stdErr.Fields,
	})
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
