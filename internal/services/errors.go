package services

import "net/http"

// ErrorCode is a stable, machine-readable failure code returned to clients
type ErrorCode string

const (
	CodeValidation         ErrorCode = "VALIDATION"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeAccountInactive    ErrorCode = "ACCOUNT_INACTIVE"

	CodeAlreadyResolved    ErrorCode = "ALREADY_RESOLVED"
	CodeAlreadyEngaged     ErrorCode = "ALREADY_ENGAGED"
	CodeDuplicate          ErrorCode = "DUPLICATE"
	CodeOpportunityClosed  ErrorCode = "OPPORTUNITY_INACTIVE"
	CodeResumeRequired     ErrorCode = "RESUME_REQUIRED"
	CodeNoSlotsRemaining   ErrorCode = "NO_SLOTS_REMAINING"

	CodeTicketInactive  ErrorCode = "TICKET_INACTIVE"
	CodeSalesNotStarted ErrorCode = "SALES_NOT_STARTED"
	CodeSalesEnded      ErrorCode = "SALES_ENDED"
	CodeSoldOut         ErrorCode = "SOLD_OUT"
	CodePaymentFailed   ErrorCode = "PAYMENT_FAILED"

	CodeOTPUsed     ErrorCode = "OTP_ALREADY_USED"
	CodeOTPExpired  ErrorCode = "OTP_EXPIRED"
	CodeOTPMismatch ErrorCode = "OTP_MISMATCH"

	CodeInternal ErrorCode = "INTERNAL"
)

// Error is a service-level failure with a stable code. Handlers translate
// the code into an HTTP status; Err carries the underlying cause for logs.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to a response status
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeValidation, CodeResumeRequired, CodeOTPMismatch, CodeOTPExpired, CodeOTPUsed:
		return http.StatusBadRequest
	case CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden, CodeAccountInactive:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyResolved, CodeAlreadyEngaged, CodeDuplicate,
		CodeNoSlotsRemaining, CodeSoldOut:
		return http.StatusConflict
	case CodeOpportunityClosed, CodeTicketInactive, CodeSalesNotStarted, CodeSalesEnded:
		return http.StatusUnprocessableEntity
	case CodePaymentFailed:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// NewError builds a service error without an underlying cause
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError builds a service error around an underlying cause
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
