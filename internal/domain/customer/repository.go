package customer

// Repository stores customers by id. Implementations return copies so callers
// never observe later writes through a value they already hold.
type Repository interface {
	Save(customer *Customer)

	FindByID(customerID string) (*Customer, bool)

	FindAll() []*Customer
}
