package memory

import (
	"console-bank/internal/domain/customer"
	"log/slog"
	"sync"
)

type CustomerStore struct {
	mu     sync.RWMutex
	byID   map[string]*customer.Customer
	order  []string
	logger *slog.Logger
}

var _ customer.Repository = (*CustomerStore)(nil)

func NewCustomerStore(logger *slog.Logger) *CustomerStore {
	return &CustomerStore{
		byID:   make(map[string]*customer.Customer),
		logger: componentLogger(logger, "CustomerStore"),
	}
}

func (s *CustomerStore) Save(cust *customer.Customer) {
	if cust == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[cust.CustomerID]; !exists {
		s.order = append(s.order, cust.CustomerID)
	}
	cp := *cust
	s.byID[cust.CustomerID] = &cp
	s.logger.Debug("Customer saved", slog.String("customerID", cust.CustomerID))
}

func (s *CustomerStore) FindByID(customerID string) (*customer.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cust, ok := s.byID[customerID]
	if !ok {
		return nil, false
	}
	cp := *cust
	return &cp, true
}

func (s *CustomerStore) FindAll() []*customer.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*customer.Customer, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.byID[id]
		out = append(out, &cp)
	}
	return out
}
