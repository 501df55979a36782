package ledger

import (
	"console-bank/internal/domain/account"
	"console-bank/internal/pkg/apperrors"
	"strings"

	"github.com/shopspring/decimal"
)

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("name", "name is required")
	}
	return nil
}

func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return apperrors.NewValidationError("email", "email must contain '@'")
	}
	return nil
}

// ValidateAccountType accepts SAVINGS or CURRENT in any letter case.
func ValidateAccountType(accountType string) error {
	if _, ok := account.ParseType(accountType); !ok {
		return apperrors.NewValidationError("accountType", "account type must be SAVINGS or CURRENT")
	}
	return nil
}

// ValidateAmountPositive rejects negative amounts. Zero passes.
func ValidateAmountPositive(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperrors.NewValidationError("amount", "amount cannot be negative")
	}
	return nil
}
