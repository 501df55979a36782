package handler

import (
	"console-bank/internal/api/handler/dto"
	"console-bank/internal/domain/account"
	"console-bank/internal/domain/ledger"
	"console-bank/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// AccountHandler serves the read-only account inspection routes.
type AccountHandler struct {
	service ledger.LedgerService
	logger  *slog.Logger
}

func NewAccountHandler(s ledger.LedgerService, l *slog.Logger) *AccountHandler {
	if s == nil {
		panic("ledger service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &AccountHandler{
		service: s,
		logger:  l.With("component", "AccountHandler"),
	}
}

func getAccountNumberFromURL(r *http.Request) (string, error) {
	number := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "accountNumber")))
	if number == "" {
		return "", fmt.Errorf("%w: accountNumber not found in URL path", apperrors.ErrInvalidArgument)
	}
	if !strings.HasPrefix(number, account.NumberPrefix) {
		return "", fmt.Errorf("%w: invalid accountNumber format in URL path: %s", apperrors.ErrInvalidArgument, number)
	}
	return number, nil
}

// ListAccounts handles GET /accounts and GET /accounts?q=<name>.
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	query, searching := r.URL.Query()["q"]

	var accounts []*account.Account
	if searching {
		h.logger.DebugContext(r.Context(), "Searching accounts by customer name", slog.String("query", query[0]))
		accounts = h.service.SearchAccountsByCustomerName(r.Context(), query[0])
	} else {
		h.logger.DebugContext(r.Context(), "Listing all accounts")
		accounts = h.service.ListAccounts(r.Context())
	}

	resp := dto.NewAccountListResponse(accounts)
	h.logger.InfoContext(r.Context(), "Accounts listed successfully", slog.Int("count", len(resp)))
	respondJSON(w, http.StatusOK, resp)
}

// GetAccount handles GET /accounts/{accountNumber}.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	number, err := getAccountNumberFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get account number from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	acc, err := h.service.GetAccount(r.Context(), number)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to get account", slog.String("accountNumber", number), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewAccountResponse(acc))
}

// GetStatement handles GET /accounts/{accountNumber}/statement. Unlike the
// ledger query, the route answers 404 for accounts that do not exist.
func (h *AccountHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	number, err := getAccountNumberFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get account number from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	if _, err := h.service.GetAccount(r.Context(), number); err != nil {
		h.logger.WarnContext(r.Context(), "Statement requested for unknown account", slog.String("accountNumber", number), slog.Any("error", err))
		respondError(w, err)
		return
	}

	txs := h.service.GetStatement(r.Context(), number)
	h.logger.InfoContext(r.Context(), "Statement retrieved successfully", slog.String("accountNumber", number), slog.Int("count", len(txs)))
	respondJSON(w, http.StatusOK, dto.NewStatementResponse(number, txs))
}
