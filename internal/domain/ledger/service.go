package ledger

import (
	"console-bank/internal/domain/account"
	"console-bank/internal/domain/customer"
	"console-bank/internal/domain/transaction"
	"console-bank/internal/event"
	"console-bank/internal/infrastructure/monitoring"
	"console-bank/internal/pkg/apperrors"
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type Money = decimal.Decimal

const (
	opOpenAccount = "open_account"
	opDeposit     = "deposit"
	opWithdraw    = "withdraw"
	opTransfer    = "transfer"
)

type LedgerService interface {
	OpenAccount(ctx context.Context, name, email, accountType string) (string, error)

	Deposit(ctx context.Context, accountNumber string, amount Money, note string) error

	Withdraw(ctx context.Context, accountNumber string, amount Money, note string) error

	Transfer(ctx context.Context, fromAccount, toAccount string, amount Money, note string) error

	// GetStatement returns the account's transactions oldest first. Unknown
	// accounts yield an empty statement.
	GetStatement(ctx context.Context, accountNumber string) []*transaction.Transaction

	ListAccounts(ctx context.Context) []*account.Account

	SearchAccountsByCustomerName(ctx context.Context, query string) []*account.Account

	GetAccount(ctx context.Context, accountNumber string) (*account.Account, error)

	// Snapshot returns every account together with its statement, all read
	// under one lock so balances and statements agree.
	Snapshot(ctx context.Context) ([]*account.Account, map[string][]*transaction.Transaction)
}

var _ LedgerService = (*ledgerService)(nil)

type Option func(*ledgerService)

// WithClock replaces the source of transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *ledgerService) {
		if now != nil {
			s.now = now
		}
	}
}

type ledgerService struct {
	customers    customer.Repository
	accounts     account.Repository
	transactions transaction.Repository
	pub          event.EventPublisher
	logger       *slog.Logger
	now          func() time.Time

	// mu serializes every mutation and account number generation.
	mu sync.RWMutex
}

// NewLedgerService wires the stores into a LedgerService. A nil publisher
// disables event publishing.
func NewLedgerService(
	customers customer.Repository,
	accounts account.Repository,
	transactions transaction.Repository,
	pub event.EventPublisher,
	logger *slog.Logger,
	opts ...Option,
) LedgerService {
	if customers == nil {
		panic("customer repository cannot be nil")
	}
	if accounts == nil {
		panic("account repository cannot be nil")
	}
	if transactions == nil {
		panic("transaction repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("No logger provided to NewLedgerService, using default stderr handler")
	}

	s := &ledgerService{
		customers:    customers,
		accounts:     accounts,
		transactions: transactions,
		pub:          pub,
		logger:       logger.With(slog.String("component", "ledgerService")),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ledgerService) OpenAccount(ctx context.Context, name, email, accountType string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	logger := s.logger.With(slog.String("accountType", accountType))
	logger.DebugContext(ctx, "Opening account")

	if err := ValidateName(name); err != nil {
		return "", s.fail(ctx, logger, opOpenAccount, err)
	}
	if err := ValidateEmail(email); err != nil {
		return "", s.fail(ctx, logger, opOpenAccount, err)
	}
	if err := ValidateAccountType(accountType); err != nil {
		return "", s.fail(ctx, logger, opOpenAccount, err)
	}
	normalizedType, _ := account.ParseType(accountType)

	cust := customer.NewCustomer(name, email)

	s.mu.Lock()
	s.customers.Save(cust)
	acc := account.NewAccount(account.FormatNumber(s.accounts.Count()+1), cust.CustomerID, normalizedType)
	s.accounts.Save(acc)
	s.mu.Unlock()

	logger.InfoContext(ctx, "Account opened",
		slog.String("accountNumber", acc.AccountNumber),
		slog.String("customerID", cust.CustomerID))
	monitoring.RecordAccountOpened(string(acc.AccountType))
	s.publishAccountOpened(ctx, cust, acc)

	return acc.AccountNumber, nil
}

func (s *ledgerService) Deposit(ctx context.Context, accountNumber string, amount Money, note string) error {
	logger := s.logger.With(slog.String("accountNumber", accountNumber))

	if err := ValidateAmountPositive(amount); err != nil {
		return s.fail(ctx, logger, opDeposit, err)
	}

	s.mu.Lock()
	acc, ok := s.accounts.FindByNumber(accountNumber)
	if !ok {
		s.mu.Unlock()
		return s.fail(ctx, logger, opDeposit, apperrors.NewAccountNotFoundError(accountNumber))
	}
	acc.Credit(amount)
	tx := transaction.NewTransaction(accountNumber, amount, note, transaction.TypeDeposit, s.now())
	s.accounts.Save(acc)
	s.transactions.Add(tx)
	s.mu.Unlock()

	logger.InfoContext(ctx, "Deposit posted", slog.String("amount", amount.StringFixed(2)))
	s.posted(ctx, tx)
	return nil
}

func (s *ledgerService) Withdraw(ctx context.Context, accountNumber string, amount Money, note string) error {
	logger := s.logger.With(slog.String("accountNumber", accountNumber))

	if err := ValidateAmountPositive(amount); err != nil {
		return s.fail(ctx, logger, opWithdraw, err)
	}

	s.mu.Lock()
	acc, ok := s.accounts.FindByNumber(accountNumber)
	if !ok {
		s.mu.Unlock()
		return s.fail(ctx, logger, opWithdraw, apperrors.NewAccountNotFoundError(accountNumber))
	}
	if !acc.CanDebit(amount) {
		s.mu.Unlock()
		return s.fail(ctx, logger, opWithdraw, insufficientFunds(acc, amount))
	}
	acc.Debit(amount)
	tx := transaction.NewTransaction(accountNumber, amount, note, transaction.TypeWithdraw, s.now())
	s.accounts.Save(acc)
	s.transactions.Add(tx)
	s.mu.Unlock()

	logger.InfoContext(ctx, "Withdrawal posted", slog.String("amount", amount.StringFixed(2)))
	s.posted(ctx, tx)
	return nil
}

func (s *ledgerService) Transfer(ctx context.Context, fromAccount, toAccount string, amount Money, note string) error {
	logger := s.logger.With(slog.String("fromAccount", fromAccount), slog.String("toAccount", toAccount))

	if err := ValidateAmountPositive(amount); err != nil {
		return s.fail(ctx, logger, opTransfer, err)
	}
	if fromAccount == toAccount {
		return s.fail(ctx, logger, opTransfer, apperrors.NewValidationError("", "cannot transfer to the same account"))
	}

	s.mu.Lock()
	from, ok := s.accounts.FindByNumber(fromAccount)
	if !ok {
		s.mu.Unlock()
		return s.fail(ctx, logger, opTransfer, apperrors.NewAccountNotFoundError(fromAccount))
	}
	to, ok := s.accounts.FindByNumber(toAccount)
	if !ok {
		s.mu.Unlock()
		return s.fail(ctx, logger, opTransfer, apperrors.NewAccountNotFoundError(toAccount))
	}
	if !from.CanDebit(amount) {
		s.mu.Unlock()
		return s.fail(ctx, logger, opTransfer, insufficientFunds(from, amount))
	}
	from.Debit(amount)
	to.Credit(amount)
	out := transaction.NewTransaction(fromAccount, amount, note, transaction.TypeTransferOut, s.now())
	in := transaction.NewTransaction(toAccount, amount, note, transaction.TypeTransferIn, s.now())
	s.accounts.Save(from)
	s.accounts.Save(to)
	s.transactions.Add(out)
	s.transactions.Add(in)
	s.mu.Unlock()

	logger.InfoContext(ctx, "Transfer posted", slog.String("amount", amount.StringFixed(2)))
	s.posted(ctx, out)
	s.posted(ctx, in)
	return nil
}

func (s *ledgerService) GetStatement(ctx context.Context, accountNumber string) []*transaction.Transaction {
	s.mu.RLock()
	txs := s.transactions.FindByAccount(accountNumber)
	s.mu.RUnlock()

	sortByTimestamp(txs)
	s.logger.DebugContext(ctx, "Statement retrieved", slog.String("accountNumber", accountNumber), slog.Int("count", len(txs)))
	return txs
}

func (s *ledgerService) ListAccounts(ctx context.Context) []*account.Account {
	s.mu.RLock()
	accounts := s.accounts.FindAll()
	s.mu.RUnlock()

	sortByNumber(accounts)
	s.logger.DebugContext(ctx, "Accounts listed", slog.Int("count", len(accounts)))
	return accounts
}

func (s *ledgerService) SearchAccountsByCustomerName(ctx context.Context, query string) []*account.Account {
	s.mu.RLock()
	var matches []*account.Account
	for _, cust := range s.customers.FindAll() {
		if cust.NameContains(query) {
			matches = append(matches, s.accounts.FindByCustomerID(cust.CustomerID)...)
		}
	}
	s.mu.RUnlock()

	if matches == nil {
		matches = []*account.Account{}
	}
	sortByNumber(matches)
	s.logger.DebugContext(ctx, "Accounts searched by customer name", slog.String("query", query), slog.Int("count", len(matches)))
	return matches
}

func (s *ledgerService) GetAccount(ctx context.Context, accountNumber string) (*account.Account, error) {
	s.mu.RLock()
	acc, ok := s.accounts.FindByNumber(accountNumber)
	s.mu.RUnlock()

	if !ok {
		s.logger.DebugContext(ctx, "Account not found", slog.String("accountNumber", accountNumber))
		return nil, apperrors.NewAccountNotFoundError(accountNumber)
	}
	return acc, nil
}

func (s *ledgerService) Snapshot(ctx context.Context) ([]*account.Account, map[string][]*transaction.Transaction) {
	s.mu.RLock()
	accounts := s.accounts.FindAll()
	statements := make(map[string][]*transaction.Transaction, len(accounts))
	for _, acc := range accounts {
		statements[acc.AccountNumber] = s.transactions.FindByAccount(acc.AccountNumber)
	}
	s.mu.RUnlock()

	sortByNumber(accounts)
	for _, txs := range statements {
		sortByTimestamp(txs)
	}
	s.logger.DebugContext(ctx, "Ledger snapshot taken", slog.Int("accounts", len(accounts)))
	return accounts, statements
}

func (s *ledgerService) fail(ctx context.Context, logger *slog.Logger, operation string, err error) error {
	reason := apperrors.Kind(err)
	logger.WarnContext(ctx, "Ledger operation rejected",
		slog.String("operation", operation),
		slog.String("reason", reason),
		slog.Any("error", err))
	monitoring.RecordOperationFailure(operation, reason)
	return err
}

func (s *ledgerService) posted(ctx context.Context, tx *transaction.Transaction) {
	monitoring.RecordTransaction(string(tx.Type), tx.Amount)
	if s.pub == nil {
		return
	}
	posted := event.TransactionPostedEvent{
		Timestamp: s.now(),
		Payload:   NewTransactionEventPayload(tx),
	}
	if err := s.pub.PublishTransactionPosted(ctx, posted); err != nil {
		s.logger.ErrorContext(ctx, "Transaction posted, but FAILED to publish event",
			slog.String("transactionID", tx.TransactionID),
			slog.Any("error", err))
	}
}

func (s *ledgerService) publishAccountOpened(ctx context.Context, cust *customer.Customer, acc *account.Account) {
	if s.pub == nil {
		return
	}
	opened := event.AccountOpenedEvent{
		Timestamp: s.now(),
		Payload:   NewAccountEventPayload(cust, acc),
	}
	if err := s.pub.PublishAccountOpened(ctx, opened); err != nil {
		s.logger.ErrorContext(ctx, "Account opened, but FAILED to publish event",
			slog.String("accountNumber", acc.AccountNumber),
			slog.Any("error", err))
	}
}

func NewAccountEventPayload(cust *customer.Customer, acc *account.Account) event.AccountPayload {
	if cust == nil || acc == nil {
		return event.AccountPayload{}
	}
	return event.AccountPayload{
		AccountNumber: acc.AccountNumber,
		CustomerID:    cust.CustomerID,
		CustomerName:  cust.Name,
		AccountType:   string(acc.AccountType),
		Balance:       acc.Balance.StringFixed(2),
		CreatedAt:     acc.CreatedAt,
	}
}

func NewTransactionEventPayload(tx *transaction.Transaction) event.TransactionPayload {
	if tx == nil {
		return event.TransactionPayload{}
	}
	return event.TransactionPayload{
		TransactionID: tx.TransactionID,
		AccountNumber: tx.AccountNumber,
		Type:          string(tx.Type),
		Amount:        tx.Amount.StringFixed(2),
		Note:          tx.Note,
		Timestamp:     tx.Timestamp,
	}
}

func insufficientFunds(acc *account.Account, amount Money) error {
	return &apperrors.InsufficientFundsError{
		AccountNumber: acc.AccountNumber,
		Balance:       acc.Balance.StringFixed(2),
		Requested:     amount.StringFixed(2),
	}
}

func sortByNumber(accounts []*account.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].AccountNumber < accounts[j].AccountNumber
	})
}

func sortByTimestamp(txs []*transaction.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.Before(txs[j].Timestamp)
	})
}
