package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeDeposit     Type = "DEPOSIT"
	TypeWithdraw    Type = "WITHDRAW"
	TypeTransferIn  Type = "TRANSFER_IN"
	TypeTransferOut Type = "TRANSFER_OUT"
)

// Credits reports whether a transaction of this type raises the balance.
func (t Type) Credits() bool {
	return t == TypeDeposit || t == TypeTransferIn
}

// Transaction is an immutable ledger record.
type Transaction struct {
	TransactionID string          `json:"transactionId"`
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note"`
	Timestamp     time.Time       `json:"timestamp"`
	Type          Type            `json:"type"`
}

func NewTransaction(accountNumber string, amount decimal.Decimal, note string, txType Type, timestamp time.Time) *Transaction {
	return &Transaction{
		TransactionID: uuid.NewString(),
		AccountNumber: accountNumber,
		Amount:        amount,
		Note:          note,
		Timestamp:     timestamp,
		Type:          txType,
	}
}

// SignedAmount is the effect of the transaction on its account balance.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type.Credits() {
		return t.Amount
	}
	return t.Amount.Neg()
}
