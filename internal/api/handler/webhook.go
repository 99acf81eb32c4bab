package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/davidalade/wallet-ledger/internal/models"
	"github.com/davidalade/wallet-ledger/internal/service"
	"go.uber.org/zap"
)

// signatureHeader carries the provider's HMAC of the raw request body.
const signatureHeader = "x-paystack-signature"

// WebhookHandler receives payment provider callbacks.
type WebhookHandler struct {
	webhooks *service.WebhookService
}

func NewWebhookHandler(webhooks *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// HandlePaystackWebhook handles POST /v1/webhooks/paystack. Duplicate
// deliveries and non-charge events get a 200 so the provider stops
// retrying; signature failures return 401 with no detail.
func (h *WebhookHandler) HandlePaystackWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-body", "failed to read request body")
		return
	}

	result, err := h.webhooks.HandleEvent(r.Context(), body, r.Header.Get(signatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignature):
			RespondError(w, r, http.StatusUnauthorized, "webhook/invalid-signature", "invalid signature")
		case errors.Is(err, models.ErrTransactionNotFound):
			RespondError(w, r, http.StatusNotFound, "transaction/not-found", "unknown reference")
		default:
			zap.L().Error("process webhook failed", zap.Error(err))
			respondServiceError(w, r, err)
		}
		return
	}

	RespondJSON(w, http.StatusOK, result)
}
