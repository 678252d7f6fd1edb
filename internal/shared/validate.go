package shared

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps request field names to validation messages.
type FieldErrors map[string]string

type validationBody struct {
	Errors FieldErrors `json:"errors"`
}

// FlattenValidationErrors converts validator output into field messages.
func FlattenValidationErrors(err error) FieldErrors {
	out := make(FieldErrors)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["general"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = field + " is required"
		case "min":
			out[field] = field + " is too short"
		case "max":
			out[field] = field + " is too long"
		default:
			out[field] = field + " is invalid"
		}
	}
	return out
}

// WriteValidationErrors renders a 400 response with per-field messages.
func WriteValidationErrors(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger != nil {
		logger.Debug("validation failed", slog.Any("error", err))
	}
	WriteJSON(w, http.StatusBadRequest, validationBody{Errors: FlattenValidationErrors(err)})
}
