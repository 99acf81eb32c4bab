package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/davidalade/wallet-ledger/internal/api/middleware"
	"github.com/davidalade/wallet-ledger/internal/domain"
	"github.com/davidalade/wallet-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WalletHandler is the HTTP surface over the ledger services. It validates
// request shape only; every balance rule lives in the services.
type WalletHandler struct {
	wallets   *service.WalletService
	deposits  *service.DepositService
	transfers *service.TransferService
	withdraws *service.WithdrawService
}

func NewWalletHandler(wallets *service.WalletService, deposits *service.DepositService, transfers *service.TransferService, withdraws *service.WithdrawService) *WalletHandler {
	return &WalletHandler{
		wallets:   wallets,
		deposits:  deposits,
		transfers: transfers,
		withdraws: withdraws,
	}
}

type amountRequest struct {
	Amount string `json:"amount"` // naira, e.g. "150.00"
}

type transferRequest struct {
	WalletNumber string `json:"wallet_number"`
	Amount       string `json:"amount"`
}

// parseAmount converts a display-unit naira string into kobo.
func parseAmount(raw string) (int64, bool) {
	naira, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	money := domain.FromNaira(naira)
	if !money.IsPositive() {
		return 0, false
	}
	return money.Kobo, true
}

// CreateWallet handles POST /v1/wallet.
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	actor, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-token-claims", "invalid caller identity")
		return
	}

	wallet, err := h.wallets.CreateWallet(r.Context(), actor)
	if err != nil {
		zap.L().Error("create wallet failed", zap.Error(err))
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, wallet)
}

// GetBalance handles GET /v1/wallet/balance.
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	actor, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-token-claims", "invalid caller identity")
		return
	}

	balance, err := h.wallets.GetBalance(r.Context(), actor)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{
		"wallet_number": balance.WalletNumber,
		"balance":       domain.NewMoney(balance.Kobo).ToNaira().StringFixed(2),
	})
}

// InitiateDeposit handles POST /v1/wallet/deposit.
func (h *WalletHandler) InitiateDeposit(w http.ResponseWriter, r *http.Request) {
	actor, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-token-claims", "invalid caller identity")
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "invalid request body")
		return
	}
	amountKobo, ok := parseAmount(req.Amount)
	if !ok {
		RespondError(w, r, http.StatusBadRequest, "wallet/invalid-amount", "amount must be a positive decimal")
		return
	}

	email := middleware.UserEmailFromContext(r.Context())
	intent, err := h.deposits.InitiateDeposit(r.Context(), actor, email, amountKobo)
	if err != nil {
		zap.L().Error("initiate deposit failed", zap.Error(err))
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, intent)
}

// Transfer handles POST /v1/wallet/transfer.
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	actor, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-token-claims", "invalid caller identity")
		return
	}

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "invalid request body")
		return
	}
	number := strings.TrimSpace(req.WalletNumber)
	if len(number) != 10 {
		RespondError(w, r, http.StatusBadRequest, "wallet/invalid-number", "wallet number must be exactly 10 digits")
		return
	}
	amountKobo, ok := parseAmount(req.Amount)
	if !ok {
		RespondError(w, r, http.StatusBadRequest, "wallet/invalid-amount", "amount must be a positive decimal")
		return
	}

	result, err := h.transfers.Transfer(r.Context(), actor, number, amountKobo)
	if err != nil {
		zap.L().Error("transfer failed", zap.Error(err))
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// Withdraw handles POST /v1/wallet/withdraw.
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	actor, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-token-claims", "invalid caller identity")
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "invalid request body")
		return
	}
	amountKobo, ok := parseAmount(req.Amount)
	if !ok {
		RespondError(w, r, http.StatusBadRequest, "wallet/invalid-amount", "amount must be a positive decimal")
		return
	}

	ref, err := h.withdraws.Withdraw(r.Context(), actor, amountKobo)
	if err != nil {
		zap.L().Error("withdrawal failed", zap.Error(err))
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"reference": ref, "status": "success"})
}

// GetTransactionStatus handles GET /v1/wallet/transactions/{reference}/status.
func (h *WalletHandler) GetTransactionStatus(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "reference")

	txn, err := h.wallets.GetTransactionStatus(r.Context(), ref)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{
		"reference": txn.Reference,
		"type":      strings.ToLower(txn.Type),
		"status":    strings.ToLower(txn.Status),
		"amount":    domain.NewMoney(txn.Amount).ToNaira().StringFixed(2),
	})
}

// GetTransactions handles GET /v1/wallet/transactions.
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	actor, err := requestActor(r)
	if err != nil {
		RespondError(w, r, http.StatusUnauthorized, "auth/invalid-token-claims", "invalid caller identity")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	history, err := h.wallets.GetTransactions(r.Context(), actor, page, pageSize)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, history)
}
