// internal/app/features/errors/logger.go
package errors

import (
	"encoding/json"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

// ErrorLogger logs a failure with request context and answers the
// client with a friendly page, an HTMX fragment, or a JSON body.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger wraps logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) log(r *http.Request, status int, msg string, err error) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= http.StatusInternalServerError {
		e.Log.Error(msg, fields...)
		return
	}
	e.Log.Warn(msg, fields...)
}

// LogServerError logs err and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(r, http.StatusInternalServerError, msg, err)
	RenderError(w, r, http.StatusInternalServerError, userMsg, backURL)
}

// LogBadRequest logs err and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(r, http.StatusBadRequest, msg, err)
	RenderError(w, r, http.StatusBadRequest, userMsg, backURL)
}

// LogForbidden logs err and renders the access denied page.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.log(r, http.StatusForbidden, msg, err)
	RenderForbidden(w, r, userMsg, backURL)
}

// HTMXLogServerError is LogServerError for HTMX requests: the message is
// swapped into the page's #flash region instead of replacing the page.
func (e *ErrorLogger) HTMXLogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	if !isHTMX(r) {
		e.LogServerError(w, r, msg, err, userMsg, backURL)
		return
	}
	e.log(r, http.StatusInternalServerError, msg, err)
	writeFlash(w, userMsg)
}

// HTMXLogBadRequest is LogBadRequest for HTMX requests.
func (e *ErrorLogger) HTMXLogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	if !isHTMX(r) {
		e.LogBadRequest(w, r, msg, err, userMsg, backURL)
		return
	}
	e.log(r, http.StatusBadRequest, msg, err)
	writeFlash(w, userMsg)
}

// LogJSON logs err and writes {"error": userMsg} with status.
func (e *ErrorLogger) LogJSON(w http.ResponseWriter, r *http.Request, status int, msg string, err error, userMsg string) {
	e.log(r, status, msg, err)
	WriteJSONError(w, status, userMsg)
}

// WriteJSONError writes {"error": msg} with status.
func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") != ""
}

// writeFlash answers 200 so htmx performs the swap.
func writeFlash(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("HX-Retarget", "#flash")
	w.Header().Set("HX-Reswap", "innerHTML")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="flash flash-error" role="alert">` + template.HTMLEscapeString(msg) + `</div>`))
}
