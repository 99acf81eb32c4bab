package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/davidalade/wallet-ledger/internal/api/middleware"
	"github.com/davidalade/wallet-ledger/internal/api/problem"
	"github.com/davidalade/wallet-ledger/internal/models"
	"github.com/google/uuid"
)

// RespondJSON writes a JSON response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError writes an RFC 7807 error response.
func RespondError(w http.ResponseWriter, r *http.Request, status int, problemType, message string) {
	problem.Write(w, r, status, problem.Type(problemType), http.StatusText(status), message)
}

func requestActor(r *http.Request) (uuid.UUID, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return uuid.Nil, errors.New("missing user in auth context")
	}
	return uuid.Parse(userID)
}

// respondServiceError maps ledger error kinds onto HTTP statuses so clients
// can distinguish caller mistakes, conflicts and retryable failures.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		RespondError(w, r, http.StatusBadRequest, "wallet/invalid-amount", err.Error())
	case errors.Is(err, models.ErrWalletNotFound):
		RespondError(w, r, http.StatusNotFound, "wallet/not-found", "wallet not found")
	case errors.Is(err, models.ErrTransactionNotFound):
		RespondError(w, r, http.StatusNotFound, "transaction/not-found", "transaction not found")
	case errors.Is(err, models.ErrInsufficientBalance):
		RespondError(w, r, http.StatusConflict, "wallet/insufficient-balance", "insufficient balance")
	case errors.Is(err, models.ErrSameWallet):
		RespondError(w, r, http.StatusConflict, "wallet/same-wallet", "cannot transfer to your own wallet")
	case errors.Is(err, models.ErrWalletExists):
		RespondError(w, r, http.StatusConflict, "wallet/already-exists", "wallet already exists")
	case errors.Is(err, models.ErrDuplicateReference):
		RespondError(w, r, http.StatusConflict, "transaction/duplicate-reference", "reference already exists")
	case errors.Is(err, models.ErrLockTimeout):
		RespondError(w, r, http.StatusServiceUnavailable, "wallet/busy", "wallet is busy, retry shortly")
	default:
		RespondError(w, r, http.StatusInternalServerError, "internal-server-error", "unexpected server error")
	}
}
