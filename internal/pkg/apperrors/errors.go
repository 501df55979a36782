package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")

	ErrAccountNotFound = errors.New("account not found")

	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrInvalidArgument = errors.New("invalid argument")
)

const (
	KindValidation        = "validation"
	KindAccountNotFound   = "account_not_found"
	KindInsufficientFunds = "insufficient_funds"
	KindInternal          = "internal"
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientFundsError reports the balance observed when a debit was rejected.
type InsufficientFundsError struct {
	AccountNumber string
	Balance       string
	Requested     string
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %s: balance %s, requested %s", e.AccountNumber, e.Balance, e.Requested)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

func NewAccountNotFoundError(accountNumber string) error {
	return fmt.Errorf("%w: %s", ErrAccountNotFound, accountNumber)
}

// Kind classifies err into one of the Kind* labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidArgument):
		return KindValidation
	case errors.Is(err, ErrAccountNotFound):
		return KindAccountNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	default:
		return KindInternal
	}
}
