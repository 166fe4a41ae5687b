// Package apierror replaces Huma's default problem+json errors with the
// {"error","message","details"} body every endpoint returns.
package apierror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

const (
	CodeValidation   = "validation"
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "not_found"
	CodeServerError  = "server_error"
)

// ErrorModel is the JSON error body.
type ErrorModel struct {
	status int

	Code    string              `json:"error" doc:"Error kind" example:"validation"`
	Message string              `json:"message,omitempty" doc:"Human readable explanation" example:"validation failed"`
	Details []*huma.ErrorDetail `json:"details,omitempty" doc:"Per-field validation problems"`
}

func (e *ErrorModel) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

func (e *ErrorModel) GetStatus() int {
	return e.status
}

func init() {
	huma.NewError = New
}

// New builds the error for status. Huma's 422 schema failures become 400.
// Server errors never carry the message or details of the cause.
func New(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		return &ErrorModel{status: status, Code: CodeServerError}
	}

	model := &ErrorModel{
		status:  status,
		Code:    codeFor(status),
		Message: msg,
	}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var detailer huma.ErrorDetailer
		if errors.As(err, &detailer) {
			model.Details = append(model.Details, detailer.ErrorDetail())
			continue
		}
		model.Details = append(model.Details, &huma.ErrorDetail{Message: err.Error()})
	}
	return model
}

// Validation returns a 400 listing every field problem.
func Validation(details ...*huma.ErrorDetail) huma.StatusError {
	errs := make([]error, len(details))
	for i, detail := range details {
		errs[i] = detail
	}
	return New(http.StatusBadRequest, "validation failed", errs...)
}

func NotFound(msg string) huma.StatusError {
	return New(http.StatusNotFound, msg)
}

func Unauthorized(msg string) huma.StatusError {
	return New(http.StatusUnauthorized, msg)
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusNotFound:
		return CodeNotFound
	}
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
