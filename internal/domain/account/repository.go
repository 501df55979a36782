package account

type Repository interface {
	Save(account *Account)

	FindByNumber(accountNumber string) (*Account, bool)

	FindByCustomerID(customerID string) []*Account

	FindAll() []*Account

	Count() int
}
