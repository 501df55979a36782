package money

import (
	"console-bank/internal/pkg/apperrors"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for every amount.
const Scale = 2

// Parse reads a user-supplied amount. Signs are preserved; rejecting negative
// amounts is left to the ledger rules.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, apperrors.NewValidationError("amount", "amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &apperrors.ValidationError{Field: "amount", Message: "amount must be a number", Cause: err}
	}
	if !d.Equal(d.Round(Scale)) {
		return decimal.Zero, apperrors.NewValidationError("amount", "amount must have at most 2 decimal places")
	}
	return d, nil
}

func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
