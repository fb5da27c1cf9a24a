package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeTextTooLarge     = "TEXT_TOO_LARGE"
	ErrCodeBatchTooLarge    = "BATCH_TOO_LARGE"
	ErrCodeExtractionFailed = "EXTRACTION_FAILED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FingerprintError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type FingerprintError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *FingerprintError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *FingerprintError) Unwrap() error {
	return e.Err
}

// NewFingerprintError creates a new FingerprintError.
func NewFingerprintError(code, message string, err error) *FingerprintError {
	return &FingerprintError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *FingerprintError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
