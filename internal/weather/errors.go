package weather

import "errors"

// Well-known error codes. Provider error codes (for example "401") are
// passed through verbatim and are not enumerated here.
const (
	CodeNetworkError = "NETWORK_ERROR"
	CodeEmptyInput   = "EMPTY_INPUT"
	CodeUnknown      = "UNKNOWN"
)

// APIError classifies a failed weather or geocoding operation.
// Code is either one of the constants above or a provider-supplied code.
type APIError struct {
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError builds a classified error.
func NewAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// WrapUnknown classifies any error that is not already an APIError as
// UNKNOWN, preserving the original message. Already-classified errors are
// returned unchanged.
func WrapUnknown(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return &APIError{Code: CodeUnknown, Message: err.Error(), Err: err}
}

// CodeOf extracts the classification code from an error chain, or
// UNKNOWN when the error carries no APIError.
func CodeOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries the given classification code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
