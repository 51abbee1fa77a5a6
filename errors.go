package checkout

import (
	"errors"
	"fmt"
)

// Standard checkout error definitions

var (
	// ErrUnknownCoin indicates a coin symbol absent from the merchant's
	// accepted-payments table. Configuration defect, not a user error.
	ErrUnknownCoin = errors.New("checkout: unknown coin")

	// ErrUnknownChain indicates a chain id absent from the merchant's
	// accepted-payments table. Configuration defect, not a user error.
	ErrUnknownChain = errors.New("checkout: unknown chain")

	// ErrInvalidSession indicates a malformed payment session.
	ErrInvalidSession = errors.New("checkout: invalid payment session")

	// ErrInvalidIntent indicates an intent that is not valid on the
	// current screen.
	ErrInvalidIntent = errors.New("checkout: intent not valid on current screen")

	// ErrConnectFailed indicates the wallet collaborator declined or
	// failed the connect attempt.
	ErrConnectFailed = errors.New("checkout: wallet connect failed")

	// ErrSelectionIncomplete indicates the user tried to continue without
	// both a coin and a compatible chain selected.
	ErrSelectionIncomplete = errors.New("checkout: coin and chain selection incomplete")

	// ErrInvalidStatusTransition indicates an attempt to move a session
	// status backwards or out of a terminal status.
	ErrInvalidStatusTransition = errors.New("checkout: invalid session status transition")

	// ErrInvalidTxHash indicates a settlement hash that is not a 32-byte
	// hex string.
	ErrInvalidTxHash = errors.New("checkout: invalid settlement transaction hash")

	// ErrInvalidFundingMethod indicates an unrecognized funding method.
	ErrInvalidFundingMethod = errors.New("checkout: invalid funding method")
)

// ErrorCode classifies a CheckoutError for callers that branch on the
// spec's error taxonomy.
type ErrorCode string

const (
	// ErrCodeUserRecoverable covers wrong selections, declined connects and
	// similar conditions surfaced on the current screen without transition.
	ErrCodeUserRecoverable ErrorCode = "USER_RECOVERABLE"

	// ErrCodeTransient covers temporary collaborator failures. The machine
	// absorbs these itself (a failed re-check routes to funding options),
	// so they rarely escape to callers.
	ErrCodeTransient ErrorCode = "TRANSIENT"

	// ErrCodeConfiguration covers deployment/config defects: unknown coins
	// or chains, malformed sessions. These abort the flow.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"
)

// CheckoutError carries a taxonomy code and optional details alongside the
// underlying cause.
type CheckoutError struct {
	Code    ErrorCode
	Message string
	Err     error
	Details map[string]any
}

// NewCheckoutError creates a CheckoutError with an initialized details map.
func NewCheckoutError(code ErrorCode, message string, err error) *CheckoutError {
	return &CheckoutError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: make(map[string]any),
	}
}

func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// WithDetails attaches a key/value pair and returns the error for chaining.
func (e *CheckoutError) WithDetails(key string, value any) *CheckoutError {
	e.Details[key] = value
	return e
}

// IsConfiguration reports whether err is a fatal configuration error that
// must abort the flow rather than be retried or substituted.
func IsConfiguration(err error) bool {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeConfiguration
	}
	return errors.Is(err, ErrUnknownCoin) || errors.Is(err, ErrUnknownChain) || errors.Is(err, ErrInvalidSession)
}

func configurationError(message string, err error) *CheckoutError {
	return NewCheckoutError(ErrCodeConfiguration, message, err)
}

func userError(message string, err error) *CheckoutError {
	return NewCheckoutError(ErrCodeUserRecoverable, message, err)
}
