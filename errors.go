package walletcheckout

import (
	"errors"
	"fmt"
)

// WalletError represents a checkout-engine error with a stable code.
type WalletError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *WalletError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *WalletError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeSDKUnavailable = "sdk_unavailable"
	ErrCodeConfig         = "config_error"
	ErrCodeTransport      = "transport_error"
	ErrCodeValidation     = "validation_failed"
	ErrCodeAuthorization  = "authorization_failed"
	ErrCodeShipping       = "shipping_unserviceable"
	ErrCodeOrderCreate    = "order_create_failed"
	ErrCodeSubmission     = "submission_failed"
	ErrCodeSessionState   = "invalid_session_state"
)

// NewWalletError creates a new wallet error
func NewWalletError(code, message string, details map[string]interface{}) *WalletError {
	return &WalletError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// WrapWalletError creates a coded error that preserves the underlying cause.
func WrapWalletError(code, message string, cause error) *WalletError {
	return &WalletError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode extracts the wallet error code from err, or "" if err carries none.
func ErrorCode(err error) string {
	var we *WalletError
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}

// IsAddressUnserviceable reports whether err is the backend telling us it
// cannot ship to the selected address. The sheet stays open for this class of
// failure so the user can pick another address.
func IsAddressUnserviceable(err error) bool {
	return ErrorCode(err) == ErrCodeShipping
}
