package memory

import (
	"console-bank/internal/domain/customer"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerStore_SaveAndFind(t *testing.T) {
	store := NewCustomerStore(nil)
	cust := customer.NewCustomer("Alice Smith", "alice@x.com")

	store.Save(cust)

	found, ok := store.FindByID(cust.CustomerID)
	require.True(t, ok)
	assert.Equal(t, cust, found)

	_, ok = store.FindByID("missing")
	assert.False(t, ok, "Missing customer should report absence, not fail")
}

func TestCustomerStore_SnapshotsAreDetached(t *testing.T) {
	store := NewCustomerStore(nil)
	cust := customer.NewCustomer("Alice Smith", "alice@x.com")
	store.Save(cust)

	cust.Name = "Changed after save"
	all := store.FindAll()
	require.Len(t, all, 1)
	assert.Equal(t, "Alice Smith", all[0].Name, "Store should keep its own copy")

	all[0].Name = "Changed through snapshot"
	found, _ := store.FindByID(cust.CustomerID)
	assert.Equal(t, "Alice Smith", found.Name, "Snapshot mutation must not reach the store")
}

func TestCustomerStore_FindAllKeepsInsertionOrder(t *testing.T) {
	store := NewCustomerStore(nil)
	first := customer.NewCustomer("First", "first@x.com")
	second := customer.NewCustomer("Second", "second@x.com")
	store.Save(first)
	store.Save(second)

	first.Email = "updated@x.com"
	store.Save(first)

	all := store.FindAll()
	require.Len(t, all, 2, "Overwriting must not duplicate the entry")
	assert.Equal(t, first.CustomerID, all[0].CustomerID)
	assert.Equal(t, "updated@x.com", all[0].Email)
	assert.Equal(t, second.CustomerID, all[1].CustomerID)
}
