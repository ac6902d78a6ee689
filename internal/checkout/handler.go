package checkout

import (
	"encoding/json"
	"net/http"

	"libreria-be/internal/logger"
	"libreria-be/internal/utils"

	"go.uber.org/zap"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Create is the POST /checkout route handler.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	res, err := h.svc.Checkout(r.Context(), input)
	if err != nil {
		if utils.WriteValidationError(w, err) {
			return
		}
		logger.FromCtx(r.Context()).Error("checkout failed", zap.Error(err))
		utils.WriteJSONError(w, "checkout failed, please retry", http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, res)
}
