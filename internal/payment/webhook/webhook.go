package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"libreria-be/internal/logger"
	"libreria-be/internal/utils"

	"go.uber.org/zap"
)

// Notification is the JSON Mercado Pago posts. It only says "something
// changed about payment <id>"; the payload carries no authoritative state.
type Notification struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

// Verifier authenticates the delivery before anything else happens.
type Verifier interface {
	Verify(r *http.Request) error
}

// Reconciler merges the referenced payment into local order state.
type Reconciler interface {
	ProcessPaymentNotification(ctx context.Context, paymentID int64) error
}

type Handler struct {
	verifier Verifier
	engine   Reconciler
}

func NewHandler(verifier Verifier, engine Reconciler) *Handler {
	return &Handler{verifier: verifier, engine: engine}
}

// HandleNotification is the POST /webhook/mercadopago route handler.
//
// Response contract: 200 acknowledges the delivery as settled; any non-2xx
// tells the gateway to redeliver later. A webhook that failed processing is
// therefore never answered with 200.
func (h *Handler) HandleNotification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)

	if err := h.verifier.Verify(r); err != nil {
		log.Warn("webhook rejected", zap.Error(err))
		utils.WriteJSONError(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteJSONError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	if n.Type != "payment" {
		// Other event families (plan, invoice, ...) are acknowledged and
		// ignored; redelivery would not change anything.
		log.Info("ignoring non-payment webhook", zap.String("type", n.Type))
		utils.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	paymentID, err := n.Data.ID.Int64()
	if err != nil || paymentID <= 0 {
		utils.WriteJSONError(w, "invalid payment id", http.StatusBadRequest)
		return
	}

	if err := h.engine.ProcessPaymentNotification(ctx, paymentID); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Error("webhook processing timed out", zap.Int64("payment_id", paymentID))
			utils.WriteJSONError(w, "upstream timeout", http.StatusGatewayTimeout)
			return
		}
		log.Error("webhook processing failed", zap.Int64("payment_id", paymentID), zap.Error(err))
		utils.WriteJSONError(w, "failed to process notification", http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
