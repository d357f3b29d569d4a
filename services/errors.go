package services

import "errors"

// Business-rule failures. Controllers map these to HTTP 400; the retry
// wrapper treats them as permanent since retrying cannot change the
// outcome.
var (
	ErrInsufficientBudget = errors.New("Insufficient budget")
	ErrProgramNotFound    = errors.New("program not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserNotApproved    = errors.New("user is not approved to place orders")
	ErrInvalidTransition  = errors.New("operation not permitted for the order's current status")
)

var businessErrors = []error{
	ErrInsufficientBudget,
	ErrProgramNotFound,
	ErrOrderNotFound,
	ErrUserNotFound,
	ErrUserNotApproved,
	ErrInvalidTransition,
}

// IsBusinessError reports whether err is a validation/business failure as
// opposed to a transient store fault.
func IsBusinessError(err error) bool {
	for _, be := range businessErrors {
		if errors.Is(err, be) {
			return true
		}
	}
	return false
}
