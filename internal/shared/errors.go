package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName indicates a unique-name violation.
	ErrDuplicateName = errors.New("name already exists")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden indicates the caller lacks the required role.
	ErrForbidden = errors.New("forbidden")
)

type errorBody struct {
	Error string `json:"error"`
}

// StatusForError maps taxonomy errors to HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders an error as a JSON body with the mapped status.
// Unexpected errors are logged and surfaced as a generic 500 message.
func WriteError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := StatusForError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("internal error", slog.Any("error", err))
		}
		msg = http.StatusText(http.StatusInternalServerError)
	}
	WriteJSON(w, status, errorBody{Error: msg})
}

// WriteJSON renders v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
