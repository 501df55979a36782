package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeSavings Type = "SAVINGS"
	TypeCurrent Type = "CURRENT"
)

const NumberPrefix = "AC"

// ParseType normalizes s case-insensitively to one of the supported types.
func ParseType(s string) (Type, bool) {
	switch Type(strings.ToUpper(strings.TrimSpace(s))) {
	case TypeSavings:
		return TypeSavings, true
	case TypeCurrent:
		return TypeCurrent, true
	default:
		return "", false
	}
}

// FormatNumber renders the seq-th account number, e.g. AC000001 for 1.
func FormatNumber(seq int) string {
	return fmt.Sprintf("%s%06d", NumberPrefix, seq)
}

type Account struct {
	AccountNumber string          `json:"accountNumber"`
	CustomerID    string          `json:"customerId"`
	Balance       decimal.Decimal `json:"balance"`
	AccountType   Type            `json:"accountType"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func NewAccount(accountNumber, customerID string, accountType Type) *Account {
	now := time.Now()
	return &Account{
		AccountNumber: accountNumber,
		CustomerID:    customerID,
		Balance:       decimal.Zero,
		AccountType:   accountType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (a *Account) CanDebit(amount decimal.Decimal) bool {
	return !a.Balance.LessThan(amount)
}

func (a *Account) Credit(amount decimal.Decimal) {
	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = time.Now()
}

// Debit lowers the balance. Callers check CanDebit first.
func (a *Account) Debit(amount decimal.Decimal) {
	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = time.Now()
}
