package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure at the request boundary.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindRateLimit
	KindDelivery
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRateLimit:
		return "rate_limit"
	case KindDelivery:
		return "delivery"
	default:
		return "unexpected"
	}
}

const (
	MsgDeliveryFailed = "Failed to send email. Please try again later or email us directly."
	MsgUnexpected     = "Failed to process request"
)

// FieldError describes one offending request field.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

type AppError struct {
	Kind    Kind         `json:"-"`
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
	Err     error        `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, code int, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Validation(fields []FieldError) *AppError {
	e := New(KindValidation, http.StatusUnprocessableEntity, "validation failed", nil)
	e.Fields = fields
	return e
}

func RateLimited(message string) *AppError {
	return New(KindRateLimit, http.StatusTooManyRequests, message, nil)
}

// Delivery wraps an SMTP transport, auth or send failure.
func Delivery(err error) *AppError {
	return New(KindDelivery, http.StatusInternalServerError, MsgDeliveryFailed, err)
}

func Unexpected(err error) *AppError {
	return New(KindUnexpected, http.StatusInternalServerError, MsgUnexpected, err)
}

// As extracts an *AppError from err. Anything else is treated as unexpected.
func As(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unexpected(err)
}

// Is reports whether err carries an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
