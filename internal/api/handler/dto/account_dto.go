package dto

import (
	"console-bank/internal/domain/account"
	"console-bank/internal/domain/transaction"
	"console-bank/internal/pkg/money"
	"time"
)

type AccountResponse struct {
	AccountNumber string    `json:"accountNumber"`
	CustomerID    string    `json:"customerId"`
	AccountType   string    `json:"accountType"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type TransactionResponse struct {
	TransactionID string    `json:"transactionId"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	Note          string    `json:"note"`
	Timestamp     time.Time `json:"timestamp"`
}

type StatementResponse struct {
	AccountNumber string                `json:"accountNumber"`
	Transactions  []TransactionResponse `json:"transactions"`
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func NewAccountResponse(acc *account.Account) AccountResponse {
	if acc == nil {
		return AccountResponse{}
	}
	return AccountResponse{
		AccountNumber: acc.AccountNumber,
		CustomerID:    acc.CustomerID,
		AccountType:   string(acc.AccountType),
		Balance:       money.Format(acc.Balance),
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}
}

func NewAccountListResponse(accounts []*account.Account) []AccountResponse {
	resp := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		resp[i] = NewAccountResponse(acc)
	}
	return resp
}

func NewTransactionResponse(tx *transaction.Transaction) TransactionResponse {
	if tx == nil {
		return TransactionResponse{}
	}
	return TransactionResponse{
		TransactionID: tx.TransactionID,
		Type:          string(tx.Type),
		Amount:        money.Format(tx.Amount),
		Note:          tx.Note,
		Timestamp:     tx.Timestamp,
	}
}

func NewStatementResponse(accountNumber string, txs []*transaction.Transaction) StatementResponse {
	resp := StatementResponse{
		AccountNumber: accountNumber,
		Transactions:  make([]TransactionResponse, len(txs)),
	}
	for i, tx := range txs {
		resp.Transactions[i] = NewTransactionResponse(tx)
	}
	return resp
}
