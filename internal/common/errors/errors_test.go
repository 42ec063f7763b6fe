package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeConflict, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeQueryExecutionFailed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestWriteError_RendersEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewConflictError("You already have a pending application for this property"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "You already have a pending application for this property", body.Message)
	assert.Empty(t, body.Errors)
}

func TestWriteError_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewValidationFailedError([]FieldError{{Field: "email", Message: "Invalid email format"}}))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email", body.Errors[0].Field)
}

func TestWriteError_InternalCarriesTriggeringMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewInternalError("Error updating application", stderrors.New("connection reset")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Error updating application: connection reset"}`, rec.Body.String())
}

func TestWriteError_PlainErrorKeepsDriverMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, stderrors.New("pq: relation \"leases\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `relation \"leases\" does not exist`)
}

func TestWriteError_ClientErrorsOmitDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, NewInvalidInputError("priceMin must be a number"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"priceMin must be a number"}`, rec.Body.String())
}

func TestCodeOf_UnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("decide: %w", NewNotFoundError("Application not found"))
	assert.Equal(t, ErrCodeNotFound, CodeOf(err))
	assert.True(t, IsCode(err, ErrCodeNotFound))
	assert.Equal(t, ErrorCode(""), CodeOf(stderrors.New("plain")))
}

func TestInternalErrorUnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewInternalError("boom", cause)
	assert.True(t, stderrors.Is(err, cause))
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewNotificationSendFailedError("email", stderrors.New("throttled")))
	assert.Equal(t, "NOTIFICATION_SEND_FAILED", bpmn.Code)
	assert.Equal(t, 3, bpmn.Retries)
	assert.Equal(t, "NOTIFICATION_SEND_FAILED", bpmn.ToErrorVariables()["originalErrorCode"])

	bpmn = ConvertToBPMNError(NewNotFoundError("Application not found"))
	assert.Equal(t, 0, bpmn.Retries)
	assert.False(t, IsRetryableErrorCode(ErrCodeNotFound))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "AUTH", GetErrorCategory(ErrCodeForbidden))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryExecutionFailed))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchQueryFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "BUSINESS", GetErrorCategory(ErrCodeConflict))
}
