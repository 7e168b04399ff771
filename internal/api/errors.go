package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/nutri-api/internal/api/shared"
	"github.com/phrazzld/nutri-api/internal/flow"
	"github.com/phrazzld/nutri-api/internal/generation"
	"github.com/phrazzld/nutri-api/internal/schema"
)

// ErrJournalDisabled is returned by run endpoints when no database is configured.
var ErrJournalDisabled = errors.New("run journal is disabled")

// maxIssuesInMessage caps how many validation issues a 400 response lists.
const maxIssuesInMessage = 5

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, flow.ErrInvalidInput),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	case errors.Is(err, flow.ErrUnknownFlow),
		errors.Is(err, ErrJournalDisabled):
		return http.StatusNotFound

	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	case errors.Is(err, flow.ErrInvalidOutput),
		errors.Is(err, generation.ErrNoOutput),
		errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Validation
// issues are included because they only describe the caller's own request.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is empty"

	case errors.Is(err, flow.ErrInvalidInput):
		var verr *schema.ValidationError
		if errors.As(err, &verr) && len(verr.Issues) > 0 {
			return "Invalid input: " + summarizeIssues(verr.Issues)
		}
		if errors.Is(err, generation.ErrInvalidDataURI) {
			return "Invalid input: media must be a base64 data URI"
		}
		return "Invalid input"

	case errors.Is(err, flow.ErrUnknownFlow):
		return "Flow not found"

	case errors.Is(err, ErrJournalDisabled):
		return "Run journal is disabled"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The request was blocked by the model's safety filters"

	case errors.Is(err, flow.ErrInvalidOutput),
		errors.Is(err, generation.ErrNoOutput),
		errors.Is(err, generation.ErrInvalidResponse):
		return "The model returned no usable output"

	default:
		return "An unexpected error occurred"
	}
}

func summarizeIssues(issues []schema.Issue) string {
	shown := issues
	if len(shown) > maxIssuesInMessage {
		shown = shown[:maxIssuesInMessage]
	}
	parts := make([]string, len(shown))
	for i, issue := range shown {
		parts[i] = issue.String()
	}
	msg := strings.Join(parts, "; ")
	if extra := len(issues) - len(shown); extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// SanitizeValidationError turns a struct validation failure into a short
// message naming the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "datauri":
		return "must be a base64 data URI"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
