package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/yousuf64/shift"
)

// HTTPError is an error carrying the status code to respond with
type HTTPError struct {
	Status int
	Err    error
}

func (e *HTTPError) Error() string {
	return e.Err.Error()
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError wraps err so that ErrorMiddleware responds with status
func NewHTTPError(status int, err error) error {
	return &HTTPError{Status: status, Err: err}
}

// CORSMiddleware handles CORS requests with default settings
func CORSMiddleware(next shift.HandlerFunc) shift.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, route shift.Route) error {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")
		return next(w, r, route)
	}
}

// ErrorMiddleware handles errors with structured logging.
// Errors wrapping an *HTTPError use its status, anything else is a 500.
func ErrorMiddleware(logger *slog.Logger) func(shift.HandlerFunc) shift.HandlerFunc {
	return func(next shift.HandlerFunc) shift.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request, route shift.Route) error {
			err := next(w, r, route)
			if err == nil {
				return nil
			}

			status := http.StatusInternalServerError
			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Status
			}

			level := slog.LevelError
			if status < http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "Request error",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Any("error", err))

			http.Error(w, err.Error(), status)
			return err
		}
	}
}

// OptionsHandler handles OPTIONS requests for CORS preflight
// This can be used as a route handler for "/*wildcard" OPTIONS routes
func OptionsHandler(w http.ResponseWriter, r *http.Request, route shift.Route) error {
	w.WriteHeader(http.StatusOK)
	return nil
}
