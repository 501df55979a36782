package handler_test

import (
	"console-bank/internal/api/handler"
	"console-bank/internal/api/handler/dto"
	"console-bank/internal/domain/account"
	"console-bank/internal/domain/ledger"
	"console-bank/internal/domain/transaction"
	"console-bank/internal/pkg/apperrors"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedgerService struct {
	mock.Mock
}

func (_m *MockLedgerService) OpenAccount(ctx context.Context, name, email, accountType string) (string, error) {
	ret := _m.Called(ctx, name, email, accountType)
	return ret.String(0), ret.Error(1)
}

func (_m *MockLedgerService) Deposit(ctx context.Context, accountNumber string, amount ledger.Money, note string) error {
	ret := _m.Called(ctx, accountNumber, amount, note)
	return ret.Error(0)
}

func (_m *MockLedgerService) Withdraw(ctx context.Context, accountNumber string, amount ledger.Money, note string) error {
	ret := _m.Called(ctx, accountNumber, amount, note)
	return ret.Error(0)
}

func (_m *MockLedgerService) Transfer(ctx context.Context, fromAccount, toAccount string, amount ledger.Money, note string) error {
	ret := _m.Called(ctx, fromAccount, toAccount, amount, note)
	return ret.Error(0)
}

func (_m *MockLedgerService) GetStatement(ctx context.Context, accountNumber string) []*transaction.Transaction {
	ret := _m.Called(ctx, accountNumber)
	if ret.Get(0) != nil {
		return ret.Get(0).([]*transaction.Transaction)
	}
	return nil
}

func (_m *MockLedgerService) ListAccounts(ctx context.Context) []*account.Account {
	ret := _m.Called(ctx)
	if ret.Get(0) != nil {
		return ret.Get(0).([]*account.Account)
	}
	return nil
}

func (_m *MockLedgerService) SearchAccountsByCustomerName(ctx context.Context, query string) []*account.Account {
	ret := _m.Called(ctx, query)
	if ret.Get(0) != nil {
		return ret.Get(0).([]*account.Account)
	}
	return nil
}

func (_m *MockLedgerService) GetAccount(ctx context.Context, accountNumber string) (*account.Account, error) {
	ret := _m.Called(ctx, accountNumber)
	var r0 *account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*account.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockLedgerService) Snapshot(ctx context.Context) ([]*account.Account, map[string][]*transaction.Transaction) {
	ret := _m.Called(ctx)
	var r0 []*account.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*account.Account)
	}
	var r1 map[string][]*transaction.Transaction
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(map[string][]*transaction.Transaction)
	}
	return r0, r1
}

func setupRouter(svc *MockLedgerService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewAccountHandler(svc, logger)

	r := chi.NewRouter()
	r.Get("/accounts", h.ListAccounts)
	r.Get("/accounts/{accountNumber}", h.GetAccount)
	r.Get("/accounts/{accountNumber}/statement", h.GetStatement)
	return r
}

func serve(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func sampleAccount(number, balance string) *account.Account {
	return &account.Account{
		AccountNumber: number,
		CustomerID:    "cust-" + number,
		Balance:       decimal.RequireFromString(balance),
		AccountType:   account.TypeCurrent,
	}
}

func TestNewAccountHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Panics(t, func() { handler.NewAccountHandler(nil, logger) })
	assert.Panics(t, func() { handler.NewAccountHandler(new(MockLedgerService), nil) })
}

func TestAccountHandler_ListAccounts(t *testing.T) {
	t.Run("Lists all accounts", func(t *testing.T) {
		svc := new(MockLedgerService)
		svc.On("ListAccounts", mock.Anything).Return([]*account.Account{
			sampleAccount("AC000001", "20"),
			sampleAccount("AC000002", "50.5"),
		}).Once()

		rec := serve(setupRouter(svc), "/accounts")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		var resp []dto.AccountResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp, 2)
		assert.Equal(t, "20.00", resp[0].Balance)
		assert.Equal(t, "50.50", resp[1].Balance)
		assert.Equal(t, "CURRENT", resp[1].AccountType)
		svc.AssertExpectations(t)
	})

	t.Run("Searches by customer name", func(t *testing.T) {
		svc := new(MockLedgerService)
		svc.On("SearchAccountsByCustomerName", mock.Anything, "alice").Return([]*account.Account{
			sampleAccount("AC000003", "0"),
		}).Once()

		rec := serve(setupRouter(svc), "/accounts?q=alice")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp []dto.AccountResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "AC000003", resp[0].AccountNumber)
		svc.AssertNotCalled(t, "ListAccounts", mock.Anything)
	})

	t.Run("Empty result renders an empty array", func(t *testing.T) {
		svc := new(MockLedgerService)
		svc.On("SearchAccountsByCustomerName", mock.Anything, "nobody").Return([]*account.Account{}).Once()

		rec := serve(setupRouter(svc), "/accounts?q=nobody")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}

func TestAccountHandler_GetAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockLedgerService)
		svc.On("GetAccount", mock.Anything, "AC000001").Return(sampleAccount("AC000001", "70"), nil).Once()

		rec := serve(setupRouter(svc), "/accounts/ac000001")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.AccountResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "AC000001", resp.AccountNumber)
		assert.Equal(t, "70.00", resp.Balance)
		svc.AssertExpectations(t)
	})

	t.Run("Error - Not found", func(t *testing.T) {
		svc := new(MockLedgerService)
		svc.On("GetAccount", mock.Anything, "AC000404").Return(nil, apperrors.NewAccountNotFoundError("AC000404")).Once()

		rec := serve(setupRouter(svc), "/accounts/AC000404")

		require.Equal(t, http.StatusNotFound, rec.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "account_not_found", resp.Error.Code)
		assert.Equal(t, "account not found: AC000404", resp.Error.Message)
	})

	t.Run("Error - Malformed account number", func(t *testing.T) {
		svc := new(MockLedgerService)

		rec := serve(setupRouter(svc), "/accounts/12345")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "validation", resp.Error.Code)
		svc.AssertNotCalled(t, "GetAccount", mock.Anything, mock.Anything)
	})

	t.Run("Error - Unexpected failure", func(t *testing.T) {
		svc := new(MockLedgerService)
		svc.On("GetAccount", mock.Anything, "AC000001").Return(nil, errors.New("boom")).Once()

		rec := serve(setupRouter(svc), "/accounts/AC000001")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "An unexpected error occurred.", resp.Error.Message)
	})
}

func TestAccountHandler_GetStatement(t *testing.T) {
	ts := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		svc := new(MockLedgerService)
		svc.On("GetAccount", mock.Anything, "AC000001").Return(sampleAccount("AC000001", "20"), nil).Once()
		svc.On("GetStatement", mock.Anything, "AC000001").Return([]*transaction.Transaction{
			{TransactionID: "t1", AccountNumber: "AC000001", Amount: decimal.NewFromInt(100), Note: "Initial Deposit", Timestamp: ts, Type: transaction.TypeDeposit},
			{TransactionID: "t2", AccountNumber: "AC000001", Amount: decimal.NewFromInt(30), Note: "Withdrawal", Timestamp: ts.Add(time.Second), Type: transaction.TypeWithdraw},
			{TransactionID: "t3", AccountNumber: "AC000001", Amount: decimal.NewFromInt(50), Note: "Transfer", Timestamp: ts.Add(2 * time.Second), Type: transaction.TypeTransferOut},
		}).Once()

		rec := serve(setupRouter(svc), "/accounts/AC000001/statement")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp dto.StatementResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "AC000001", resp.AccountNumber)
		require.Len(t, resp.Transactions, 3)
		assert.Equal(t, "DEPOSIT", resp.Transactions[0].Type)
		assert.Equal(t, "100.00", resp.Transactions[0].Amount)
		assert.Equal(t, "TRANSFER_OUT", resp.Transactions[2].Type)
		svc.AssertExpectations(t)
	})

	t.Run("Error - Unknown account", func(t *testing.T) {
		svc := new(MockLedgerService)
		svc.On("GetAccount", mock.Anything, "AC000009").Return(nil, apperrors.NewAccountNotFoundError("AC000009")).Once()

		rec := serve(setupRouter(svc), "/accounts/AC000009/statement")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		svc.AssertNotCalled(t, "GetStatement", mock.Anything, mock.Anything)
	})
}
