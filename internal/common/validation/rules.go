package validation

import (
	"errors"
	"sort"

	apperrors "livest/internal/common/errors"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// Struct runs ozzo-validation rules declared through ValidateStruct and turns
// the result into a VALIDATION_FAILED error.
func Struct(structPtr interface{}, fields ...*ozzo.FieldRules) error {
	return FromRules(ozzo.ValidateStruct(structPtr, fields...))
}

// FromRules converts an ozzo-validation error into the API error shape.
func FromRules(err error) error {
	if err == nil {
		return nil
	}

	var verrs ozzo.Errors
	if !errors.As(err, &verrs) {
		var internal ozzo.InternalError
		if errors.As(err, &internal) {
			return apperrors.NewInternalError("Validation rule failed", internal.InternalError())
		}
		return apperrors.NewInvalidInputError(err.Error())
	}

	out := make([]apperrors.FieldError, 0, len(verrs))
	for field, fieldErr := range verrs {
		out = append(out, apperrors.FieldError{Field: field, Message: fieldErr.Error()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return apperrors.NewValidationFailedError(out)
}
