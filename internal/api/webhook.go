package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/go-github/v62/github"

	"archgen/internal/webhook"
)

const maxWebhookBody = 25 << 20

// receiveWebhook verifies and acknowledges a GitHub delivery. The body is read
// raw because the signature covers the exact bytes.
// POST /webhook
func (h *Handler) receiveWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.logger.Error("Failed to read webhook body", "error", err)
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res, err := h.webhooks.Handle(r.Context(), webhook.Delivery{
		Event:      github.WebHookType(r),
		DeliveryID: github.DeliveryID(r),
		Signature:  r.Header.Get(github.SHA256SignatureHeader),
		Body:       body,
	})
	if errors.Is(err, webhook.ErrInvalidSignature) {
		respondWithError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}
	if err != nil {
		h.logger.Error("Webhook processing error", "delivery_id", github.DeliveryID(r), "error", err)
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
