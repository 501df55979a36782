package event

import "time"

type AccountPayload struct {
	AccountNumber string    `json:"accountNumber"`
	CustomerID    string    `json:"customerId"`
	CustomerName  string    `json:"customerName"`
	AccountType   string    `json:"accountType"`
	Balance       string    `json:"balance"`
	CreatedAt     time.Time `json:"createdAt"`
}

type TransactionPayload struct {
	TransactionID string    `json:"transactionId"`
	AccountNumber string    `json:"accountNumber"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	Note          string    `json:"note"`
	Timestamp     time.Time `json:"timestamp"`
}

type AccountOpenedEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Payload   AccountPayload `json:"payload"`
}

type TransactionPostedEvent struct {
	Timestamp time.Time          `json:"timestamp"`
	Payload   TransactionPayload `json:"payload"`
}
