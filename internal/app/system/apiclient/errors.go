// internal/app/system/apiclient/errors.go
package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
)

// Error is a non-2xx response from the backend API.
type Error struct {
	Status  int
	Path    string
	Message string
	Fields  map[string][]string // validation errors keyed by field
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend %s: %d %s", e.Path, e.Status, e.Message)
}

// FieldError returns the first validation message for field, or "".
func (e *Error) FieldError(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// FirstFieldError returns a validation message from the alphabetically
// first field that has one, or "".
func (e *Error) FirstFieldError() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if m := e.FieldError(k); m != "" {
			return m
		}
	}
	return ""
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

func parseError(resp *http.Response, path string) *Error {
	e := &Error{Status: resp.StatusCode, Path: path}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var b errorBody
	if json.Unmarshal(raw, &b) == nil {
		e.Message = b.Message
		if e.Message == "" {
			e.Message = b.Error
		}
		e.Fields = b.Errors
	}
	if e.Message == "" {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsNotFound reports a 404 from the backend.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// IsConflict reports a 409 from the backend.
func IsConflict(err error) bool { return StatusOf(err) == http.StatusConflict }

// IsValidation reports a 422 from the backend.
func IsValidation(err error) bool { return StatusOf(err) == http.StatusUnprocessableEntity }

// Message returns the backend's human message for err, or fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" && e.Message != http.StatusText(e.Status) {
		return e.Message
	}
	return fallback
}
