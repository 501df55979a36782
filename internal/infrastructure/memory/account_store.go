package memory

import (
	"console-bank/internal/domain/account"
	"log/slog"
	"sync"
)

type AccountStore struct {
	mu       sync.RWMutex
	byNumber map[string]*account.Account
	order    []string
	logger   *slog.Logger
}

var _ account.Repository = (*AccountStore)(nil)

func NewAccountStore(logger *slog.Logger) *AccountStore {
	return &AccountStore{
		byNumber: make(map[string]*account.Account),
		logger:   componentLogger(logger, "AccountStore"),
	}
}

func (s *AccountStore) Save(acc *account.Account) {
	if acc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byNumber[acc.AccountNumber]; !exists {
		s.order = append(s.order, acc.AccountNumber)
	}
	cp := *acc
	s.byNumber[acc.AccountNumber] = &cp
	s.logger.Debug("Account saved", slog.String("accountNumber", acc.AccountNumber), slog.String("balance", acc.Balance.String()))
}

func (s *AccountStore) FindByNumber(accountNumber string) (*account.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.byNumber[accountNumber]
	if !ok {
		return nil, false
	}
	cp := *acc
	return &cp, true
}

func (s *AccountStore) FindByCustomerID(customerID string) []*account.Account {
	return s.filter(func(a *account.Account) bool { return a.CustomerID == customerID })
}

func (s *AccountStore) FindAll() []*account.Account {
	return s.filter(func(*account.Account) bool { return true })
}

func (s *AccountStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byNumber)
}

func (s *AccountStore) filter(keep func(*account.Account) bool) []*account.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*account.Account, 0)
	for _, number := range s.order {
		acc := s.byNumber[number]
		if keep(acc) {
			cp := *acc
			out = append(out, &cp)
		}
	}
	return out
}
