package memory

import (
	"console-bank/internal/domain/transaction"
	"log/slog"
	"sync"
)

// TransactionStore keeps transactions in insertion order.
type TransactionStore struct {
	mu     sync.RWMutex
	byID   map[string]*transaction.Transaction
	order  []string
	logger *slog.Logger
}

var _ transaction.Repository = (*TransactionStore)(nil)

func NewTransactionStore(logger *slog.Logger) *TransactionStore {
	return &TransactionStore{
		byID:   make(map[string]*transaction.Transaction),
		logger: componentLogger(logger, "TransactionStore"),
	}
}

func (s *TransactionStore) Add(tx *transaction.Transaction) {
	s.Save(tx)
}

func (s *TransactionStore) Save(tx *transaction.Transaction) {
	if tx == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[tx.TransactionID]; !exists {
		s.order = append(s.order, tx.TransactionID)
	}
	cp := *tx
	s.byID[tx.TransactionID] = &cp
	s.logger.Debug("Transaction recorded",
		slog.String("transactionID", tx.TransactionID),
		slog.String("accountNumber", tx.AccountNumber),
		slog.String("type", string(tx.Type)),
	)
}

func (s *TransactionStore) FindByID(transactionID string) (*transaction.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.byID[transactionID]
	if !ok {
		return nil, false
	}
	cp := *tx
	return &cp, true
}

func (s *TransactionStore) FindByAccount(accountNumber string) []*transaction.Transaction {
	return s.filter(func(tx *transaction.Transaction) bool { return tx.AccountNumber == accountNumber })
}

func (s *TransactionStore) FindAll() []*transaction.Transaction {
	return s.filter(func(*transaction.Transaction) bool { return true })
}

func (s *TransactionStore) filter(keep func(*transaction.Transaction) bool) []*transaction.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*transaction.Transaction, 0)
	for _, id := range s.order {
		tx := s.byID[id]
		if keep(tx) {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out
}
