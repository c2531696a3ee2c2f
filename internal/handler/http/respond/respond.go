// Package respond writes JSON responses and turns errors into messages that are
// safe to show users.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string   `json:"error"`
	Hints []string `json:"hints,omitempty"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"unknown",
	"must be",
	"cannot be",
	"too long",
	"too large",
}

// SafeError returns validation-style messages as-is and replaces anything else,
// and every 5xx, with "internal server error" after logging the sanitized cause.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	msg := err.Error()
	lowerMsg := strings.ToLower(msg)
	isSafe := false
	for _, safe := range safeFragments {
		if strings.Contains(lowerMsg, safe) {
			isSafe = true
			break
		}
	}
	if code >= 500 {
		isSafe = false
	}

	if isSafe {
		JSON(w, code, ErrorBody{Error: msg})
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, ErrorBody{Error: "internal server error"})
}

// AppError is an error type that carries a user-facing message and optional hints.
type AppError struct {
	UserMsg string   // Message to display to users
	Hints   []string // Follow-up suggestions shown under the message
	Err     error    // Internal error (logged for debugging)
	Code    int      // HTTP status code
}

// Error returns the error message, implementing the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given parameters.
func NewAppError(code int, userMsg string, err error, hints ...string) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err, Hints: hints}
}

// WriteError renders an *AppError with its user message and hints, logging the
// sanitized internal cause. Other errors fall back to SafeError with code.
func WriteError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			level := slog.LevelWarn
			if appErr.Code >= 500 {
				level = slog.LevelError
			}
			slog.Default().Log(context.Background(), level, "request failed",
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.String("error", SanitizeError(appErr.Err)))
		}
		JSON(w, appErr.Code, ErrorBody{Error: appErr.UserMsg, Hints: appErr.Hints})
		return
	}

	SafeError(w, code, err)
}
