package domain

import "errors"

var (
	// Loan errors
	ErrLoanNotFound   = errors.New("loan not found")
	ErrClientNotFound = errors.New("client not found")

	// Payment errors
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrUnknownSource  = errors.New("unknown funding source")

	// Shared
	ErrInvalidDate = errors.New("invalid date")
)

// ValidationError collects every constraint a request violated.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "invalid input"
	}
	msg := e.Violations[0]
	for _, v := range e.Violations[1:] {
		msg += "; " + v
	}
	return msg
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
