package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	CustomerID string    `json:"customerId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CreateDate time.Time `json:"createDate"`
}

func NewCustomer(name, email string) *Customer {
	return &Customer{
		CustomerID: uuid.NewString(),
		Name:       name,
		Email:      email,
		CreateDate: time.Now(),
	}
}

// NameContains reports whether query occurs in the customer name, ignoring
// case. Whitespace in query is significant; an empty query matches everyone.
func (c *Customer) NameContains(query string) bool {
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(query))
}
