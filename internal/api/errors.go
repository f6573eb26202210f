package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasklist-api/internal/api/shared"
	"github.com/phrazzld/tasklist-api/internal/domain"
	"github.com/phrazzld/tasklist-api/internal/service/auth"
	"github.com/phrazzld/tasklist-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients. Missing resources map to 404 on every route, and
// ownership violations to 401, so the two stay distinguishable.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication and ownership errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "User already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return "Invalid " + verr.Field
		}
		return "Invalid request"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status code and safe message, logs the full
// error, and writes the response. When userMessage is empty the mapped safe
// message is used.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	statusCode := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, statusCode, userMessage, err)
}

// buildValidationErrors converts a validation failure into per-field
// messages for the 400 payload. It understands validator.ValidationErrors
// from request struct validation and domain.ValidationError from entity
// validation; anything else becomes a single generic entry.
func buildValidationErrors(err error) []shared.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]shared.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, shared.FieldError{
				Field:   jsonFieldName(fe.Field()),
				Message: validationTagMessage(fe.Tag(), fe.Param()),
			})
		}
		return out
	}

	var dverr *domain.ValidationError
	if errors.As(err, &dverr) {
		return []shared.FieldError{{Field: dverr.Field, Message: dverr.Message}}
	}

	// Domain sentinels carry no field name of their own, so pin them to
	// the request field they describe.
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		return []shared.FieldError{{Field: "name", Message: "is required"}}
	case errors.Is(err, domain.ErrEmptyEmail):
		return []shared.FieldError{{Field: "email", Message: "is required"}}
	case errors.Is(err, domain.ErrInvalidEmail):
		return []shared.FieldError{{Field: "email", Message: "must be a valid email address"}}
	case errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrPasswordTooWeak):
		return []shared.FieldError{{Field: "password", Message: err.Error()}}
	case errors.Is(err, domain.ErrEmptyPassword):
		return []shared.FieldError{{Field: "password", Message: "is required"}}
	case errors.Is(err, domain.ErrEmptyTaskTitle):
		return []shared.FieldError{{Field: "title", Message: "is required"}}
	}

	return []shared.FieldError{{Field: "", Message: "Validation error"}}
}

// jsonFieldName lowers the first rune of a struct field name to match the
// camelCase JSON field it was decoded from.
func jsonFieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}

// validationTagMessage maps validation tags to user-friendly error messages.
func validationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param + " characters long"
	case "max":
		return "must be at most " + param + " characters long"
	case "eqfield":
		return "passwords do not match"
	default:
		return "is invalid"
	}
}
