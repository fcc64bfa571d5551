package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"contact-mailer-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// FieldErrors converts binding and validator errors into field-level details.
// Errors that are not tied to a field are reported against the whole body.
func FieldErrors(err error) []apperror.FieldError {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]apperror.FieldError, 0, len(validationErrors))
		for _, e := range validationErrors {
			fields = append(fields, formatSingleError(e))
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []apperror.FieldError{{
			Loc:  bodyLoc(typeErr.Field),
			Msg:  fmt.Sprintf("Input should be a valid %s", typeErr.Type.String()),
			Type: "type_error",
		}}
	}

	if errors.Is(err, io.EOF) {
		return []apperror.FieldError{{
			Loc:  bodyLoc(""),
			Msg:  "Request body is required",
			Type: "missing",
		}}
	}

	return []apperror.FieldError{{
		Loc:  bodyLoc(""),
		Msg:  "Request body is not valid JSON",
		Type: "json_invalid",
	}}
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) apperror.FieldError {
	field := e.Field()
	param := e.Param()

	var msg string
	switch e.Tag() {
	case "required":
		msg = "Field required"
	case "min":
		msg = fmt.Sprintf("String should have at least %s characters", param)
	case "max":
		msg = fmt.Sprintf("String should have at most %s characters", param)
	case "email":
		msg = "Value is not a valid email address"
	default:
		// Fallback for unknown tags
		msg = fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}

	return apperror.FieldError{
		Loc:  bodyLoc(field),
		Msg:  msg,
		Type: e.Tag(),
	}
}

func bodyLoc(field string) []string {
	if field == "" {
		return []string{"body"}
	}
	return []string{"body", field}
}
