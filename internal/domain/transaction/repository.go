package transaction

// Repository is an append-only log of transactions.
type Repository interface {
	Add(tx *Transaction)

	Save(tx *Transaction)

	FindByID(transactionID string) (*Transaction, bool)

	FindByAccount(accountNumber string) []*Transaction

	FindAll() []*Transaction
}
