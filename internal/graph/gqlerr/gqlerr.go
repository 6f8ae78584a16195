// Package gqlerr maps application errors to GraphQL errors. The error code
// and field details travel in the "extensions" member of the error.
package gqlerr

import (
	"errors"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/tuanvumaihuynh/graphql-crm/internal/apperr"
	"github.com/tuanvumaihuynh/graphql-crm/pkg/validator"
	"github.com/tuanvumaihuynh/graphql-crm/pkg/zerror"
)

var _ gqlerrors.ExtendedError = (*Error)(nil)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error a resolver hands to the GraphQL executor.
type Error struct {
	Message string
	Code    string
	Status  zerror.Status
	Details []FieldError

	cause error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Extensions implements gqlerrors.ExtendedError.
func (e *Error) Extensions() map[string]any {
	ext := map[string]any{"code": e.Code}
	if len(e.Details) > 0 {
		ext["details"] = e.Details
	}
	return ext
}

// Internal reports whether the error is the server's fault.
func (e *Error) Internal() bool {
	return !e.Status.IsClientError()
}

// New converts err. Errors that are not the caller's fault are reduced to a
// generic internal error.
func New(err error) *Error {
	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}

	var zErr zerror.ZError
	if errors.As(err, &zErr) && zErr.Status().IsClientError() {
		return &Error{
			Message: apperr.Message(zErr),
			Code:    zErr.Code(),
			Status:  zErr.Status(),
			Details: fieldErrors(zErr.Parent()),
			cause:   err,
		}
	}

	if details := fieldErrors(err); len(details) > 0 {
		return &Error{
			Message: apperr.Message(err),
			Code:    apperr.ValidationErrorCode,
			Status:  zerror.StatusValidationFailed,
			Details: details,
			cause:   err,
		}
	}

	return &Error{
		Message: apperr.InternalServerErr.Msg(),
		Code:    apperr.InternalServerErr.Code(),
		Status:  zerror.StatusInternalServerError,
		cause:   err,
	}
}

func fieldErrors(err error) []FieldError {
	var verrs govalidator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field:   fe.Field(),
			Message: validator.ValidationErrorMessage(fe),
		})
	}
	return details
}

// Response is the body of a request that failed outside the executor.
type Response struct {
	Errors []gqlerrors.FormattedError `json:"errors"`
}

func NewResponse(errs ...*Error) Response {
	formatted := make([]gqlerrors.FormattedError, 0, len(errs))
	for _, e := range errs {
		formatted = append(formatted, gqlerrors.FormattedError{
			Message:    e.Message,
			Extensions: e.Extensions(),
		})
	}
	return Response{Errors: formatted}
}

var InternalServerErr = &Error{
	Message: apperr.InternalServerErr.Msg(),
	Code:    apperr.InternalServerErr.Code(),
	Status:  zerror.StatusInternalServerError,
}
