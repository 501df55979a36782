package ledger_test

import (
	"console-bank/internal/domain/ledger"
	"console-bank/internal/pkg/apperrors"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var ve *apperrors.ValidationError
	if assert.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err) {
		assert.Equal(t, field, ve.Field)
	}
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ledger.ValidateName("Alice"))
	assert.NoError(t, ledger.ValidateName(" Bob "))

	for _, name := range []string{"", "   ", "\t\n"} {
		assertValidationField(t, ledger.ValidateName(name), "name")
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ledger.ValidateEmail("a@x.com"))
	assert.NoError(t, ledger.ValidateEmail("@"), "Only the presence of '@' is checked")

	for _, email := range []string{"", "ax.com", "alice"} {
		assertValidationField(t, ledger.ValidateEmail(email), "email")
	}
}

func TestValidateAccountType(t *testing.T) {
	for _, accountType := range []string{"SAVINGS", "savings", "Current", "CURRENT"} {
		assert.NoError(t, ledger.ValidateAccountType(accountType), accountType)
	}

	for _, accountType := range []string{"", "CHECKING", "savings current", "SAVING"} {
		assertValidationField(t, ledger.ValidateAccountType(accountType), "accountType")
	}
}

func TestValidateAmountPositive(t *testing.T) {
	assert.NoError(t, ledger.ValidateAmountPositive(decimal.Zero))
	assert.NoError(t, ledger.ValidateAmountPositive(decimal.RequireFromString("0.01")))
	assert.NoError(t, ledger.ValidateAmountPositive(decimal.NewFromInt(1_000_000)))

	assertValidationField(t, ledger.ValidateAmountPositive(decimal.RequireFromString("-0.01")), "amount")
}
