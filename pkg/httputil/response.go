package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/utafrali/swagshop/pkg/errors"
	"github.com/utafrali/swagshop/pkg/logger"
	"github.com/utafrali/swagshop/pkg/validator"
)

// Fixed messages for request bodies that never reach a service.
const (
	MsgInvalidBody      = "invalid request body"
	MsgValidationFailed = "request validation failed"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteText writes a plain text body with the given status code.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// WriteFailure writes {"error": message} and logs err with its error code and
// the request method and path. The client only ever sees message. It prefers the
// request-scoped logger set by the RequestLogger middleware over fallback.
func WriteFailure(w http.ResponseWriter, r *http.Request, status int, message string, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	if err != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		l.LogAttrs(r.Context(), level, message,
			logger.Err(err),
			slog.String("error_code", apperrors.Code(err)),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
		)
	}

	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteValidationError writes a 400 for a body that failed to decode or
// validate. Field-level messages are included for validator failures.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  MsgValidationFailed,
			Fields: valErr.Fields(),
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: MsgInvalidBody})
}
