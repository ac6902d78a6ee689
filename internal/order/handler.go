package order

import (
	"encoding/json"
	"errors"
	"net/http"

	"libreria-be/internal/logger"
	"libreria-be/internal/utils"

	"go.uber.org/zap"
)

// Handler exposes the admin order endpoints. Routes are mounted behind the
// admin guard; unauthenticated requests never reach these methods.
type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// List is GET /admin/orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status *Status
	if s := q.Get("status"); s != "" {
		st := Status(s)
		if !adminStatuses[st] {
			utils.WriteJSONError(w, "unknown status filter", http.StatusBadRequest)
			return
		}
		status = &st
	}

	var limit, page *int32
	if v, err := utils.ToUint(q.Get("limit")); err == nil && v > 0 {
		l := int32(v)
		limit = &l
	}
	if v, err := utils.ToUint(q.Get("page")); err == nil && v > 0 {
		p := int32(v)
		page = &p
	}

	orders, err := h.svc.ListOrders(r.Context(), status, limit, page)
	if err != nil {
		logger.FromCtx(r.Context()).Error("order list failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to list orders", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// Get is GET /admin/orders/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	o, err := h.svc.GetOrder(r.Context(), id)
	if errors.Is(err, ErrOrderNotFound) {
		utils.WriteJSONError(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.WriteJSONError(w, "failed to load order", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

// Update is PUT /admin/orders/{id}, a partial mutation.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var input UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	o, err := h.svc.AdminUpdate(r.Context(), id, input)
	if err != nil {
		switch {
		case utils.WriteValidationError(w, err):
		case errors.Is(err, ErrOrderNotFound):
			utils.WriteJSONError(w, "order not found", http.StatusNotFound)
		case errors.Is(err, ErrNotDeliverable):
			utils.WriteJSONError(w, err.Error(), http.StatusConflict)
		default:
			logger.FromCtx(r.Context()).Error("order update failed", zap.Error(err))
			utils.WriteJSONError(w, "failed to update order", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}
