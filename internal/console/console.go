package console

import (
	"bufio"
	"console-bank/internal/config"
	"console-bank/internal/domain/account"
	"console-bank/internal/domain/ledger"
	"console-bank/internal/pkg/apperrors"
	"console-bank/internal/pkg/money"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	noteInitialDeposit = "Initial Deposit"
	noteDeposit        = "Deposit"
	noteWithdrawal     = "Withdrawal"
	noteTransfer       = "Transfer"

	timestampLayout = "2006-01-02T15:04:05"
)

const menu = `1) Open Account
2) Deposit
3) Withdraw
4) Transfer
5) Account Statement
6) List Accounts
7) Search Accounts by Customer Name
0) Exit`

// errInputClosed ends the session when input runs out mid-prompt.
var errInputClosed = errors.New("input closed")

// Console is the interactive line-oriented front-end of the ledger.
type Console struct {
	service ledger.LedgerService
	in      *bufio.Scanner
	out     io.Writer
	banner  string
	prompt  string
	logger  *slog.Logger
}

func New(svc ledger.LedgerService, in io.Reader, out io.Writer, cfg config.ConsoleConfig, logger *slog.Logger) *Console {
	if svc == nil {
		panic("ledger service cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Console{
		service: svc,
		in:      bufio.NewScanner(in),
		out:     out,
		banner:  cfg.Banner,
		prompt:  cfg.Prompt,
		logger:  logger.With("component", "console"),
	}
}

// Run serves menu choices until the user exits, input ends, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	if c.banner != "" {
		c.println(c.banner)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.println(menu)
		choice, err := c.ask(c.prompt)
		if err != nil {
			return c.closed(err)
		}

		c.logger.DebugContext(ctx, "Menu choice received", slog.String("choice", choice))
		switch choice {
		case "1":
			err = c.openAccount(ctx)
		case "2":
			err = c.deposit(ctx)
		case "3":
			err = c.withdraw(ctx)
		case "4":
			err = c.transfer(ctx)
		case "5":
			err = c.statement(ctx)
		case "6":
			c.printAccounts(c.service.ListAccounts(ctx))
		case "7":
			err = c.searchAccounts(ctx)
		case "0":
			c.println("Goodbye!")
			return nil
		case "":
			continue
		default:
			c.println(fmt.Sprintf("Unknown option %q, choose 0-7.", choice))
		}

		if errors.Is(err, errInputClosed) {
			return c.closed(err)
		}
		if err != nil {
			c.logger.DebugContext(ctx, "Menu action failed", slog.String("reason", apperrors.Kind(err)), slog.Any("error", err))
			c.println("Error: " + describe(err))
		}
	}
}

func (c *Console) openAccount(ctx context.Context) error {
	name, err := c.ask("Customer name: ")
	if err != nil {
		return err
	}
	email, err := c.ask("Customer email: ")
	if err != nil {
		return err
	}
	accountType, err := c.ask("Account Type (SAVINGS/CURRENT): ")
	if err != nil {
		return err
	}
	amountStr, err := c.ask("Initial deposit (optional, blank for 0): ")
	if err != nil {
		return err
	}

	var initial ledger.Money
	if amountStr != "" {
		if initial, err = money.Parse(amountStr); err != nil {
			return err
		}
		if err := ledger.ValidateAmountPositive(initial); err != nil {
			return err
		}
	}

	accountNumber, err := c.service.OpenAccount(ctx, name, email, accountType)
	if err != nil {
		return err
	}
	var depositErr error
	if initial.IsPositive() {
		depositErr = c.service.Deposit(ctx, accountNumber, initial, noteInitialDeposit)
	}
	c.println("Account opened: " + accountNumber)
	return depositErr
}

func (c *Console) deposit(ctx context.Context) error {
	accountNumber, amount, err := c.askAccountAndAmount("Account number: ")
	if err != nil {
		return err
	}
	if err := c.service.Deposit(ctx, accountNumber, amount, noteDeposit); err != nil {
		return err
	}
	c.println(fmt.Sprintf("Deposited %s. New balance: %s", money.Format(amount), c.balance(ctx, accountNumber)))
	return nil
}

func (c *Console) withdraw(ctx context.Context) error {
	accountNumber, amount, err := c.askAccountAndAmount("Account number: ")
	if err != nil {
		return err
	}
	if err := c.service.Withdraw(ctx, accountNumber, amount, noteWithdrawal); err != nil {
		return err
	}
	c.println(fmt.Sprintf("Withdrawn %s. New balance: %s", money.Format(amount), c.balance(ctx, accountNumber)))
	return nil
}

func (c *Console) transfer(ctx context.Context) error {
	from, err := c.ask("From Account: ")
	if err != nil {
		return err
	}
	to, amount, err := c.askAccountAndAmount("To Account: ")
	if err != nil {
		return err
	}
	if err := c.service.Transfer(ctx, from, to, amount, noteTransfer); err != nil {
		return err
	}
	c.println(fmt.Sprintf("Transferred %s. %s balance: %s, %s balance: %s",
		money.Format(amount), from, c.balance(ctx, from), to, c.balance(ctx, to)))
	return nil
}

func (c *Console) statement(ctx context.Context) error {
	accountNumber, err := c.ask("Account number: ")
	if err != nil {
		return err
	}
	txs := c.service.GetStatement(ctx, accountNumber)
	if len(txs) == 0 {
		c.println("No transactions found.")
		return nil
	}
	for _, tx := range txs {
		c.println(fmt.Sprintf("%s | %s | %s | %s", tx.Timestamp.Format(timestampLayout), tx.Type, money.Format(tx.Amount), tx.Note))
	}
	return nil
}

func (c *Console) searchAccounts(ctx context.Context) error {
	query, err := c.askRaw("Customer name contains: ")
	if err != nil {
		return err
	}
	c.printAccounts(c.service.SearchAccountsByCustomerName(ctx, query))
	return nil
}

func (c *Console) printAccounts(accounts []*account.Account) {
	if len(accounts) == 0 {
		c.println("No accounts found.")
		return
	}
	for _, acc := range accounts {
		c.println(fmt.Sprintf("%s | %s | %s", acc.AccountNumber, acc.AccountType, money.Format(acc.Balance)))
	}
}

func (c *Console) askAccountAndAmount(accountPrompt string) (string, ledger.Money, error) {
	accountNumber, err := c.ask(accountPrompt)
	if err != nil {
		return "", ledger.Money{}, err
	}
	amountStr, err := c.ask("Amount: ")
	if err != nil {
		return "", ledger.Money{}, err
	}
	amount, err := money.Parse(amountStr)
	if err != nil {
		return "", ledger.Money{}, err
	}
	return accountNumber, amount, nil
}

func (c *Console) balance(ctx context.Context, accountNumber string) string {
	acc, err := c.service.GetAccount(ctx, accountNumber)
	if err != nil {
		return "unknown"
	}
	return money.Format(acc.Balance)
}

func (c *Console) ask(prompt string) (string, error) {
	line, err := c.askRaw(prompt)
	return strings.TrimSpace(line), err
}

// askRaw keeps surrounding whitespace; only the line terminator is removed.
func (c *Console) askRaw(prompt string) (string, error) {
	if prompt != "" {
		c.println(prompt)
	}
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errInputClosed
	}
	return strings.TrimSuffix(c.in.Text(), "\r"), nil
}

func (c *Console) closed(err error) error {
	if errors.Is(err, errInputClosed) {
		c.logger.Debug("Console input closed, leaving menu loop")
		return nil
	}
	return err
}

func (c *Console) println(line string) {
	fmt.Fprintln(c.out, line)
}

// describe renders err for the operator without the taxonomy prefix.
func describe(err error) string {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
