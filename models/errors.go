package models

import "fmt"

// Error codes used by the renderer and in API responses.
const (
	ErrCodeConnect         = "CONNECT_FAILED"
	ErrCodeNavigation      = "NAVIGATION_FAILED"
	ErrCodeTimeout         = "TIMEOUT"
	ErrCodeElementNotFound = "ELEMENT_NOT_FOUND"
	ErrCodeInputFailed     = "INPUT_FAILED"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RenderError is returned by the renderer when a page could not be
// produced: the session failed to open, navigation failed, or a wait ran
// out of time. It supports error wrapping via Unwrap.
type RenderError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError creates a new RenderError.
func NewRenderError(code, message string, err error) *RenderError {
	return &RenderError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *RenderError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
