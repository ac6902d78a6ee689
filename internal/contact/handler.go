package contact

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

// Submit is POST /contact.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var input NewContact
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	c, err := h.svc.Submit(r.Context(), input)
	if err != nil {
		if utils.WriteValidationError(w, err) {
			return
		}
		logger.FromCtx(r.Context()).Error("contact submit failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to submit message", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, c)
}

// List is GET /admin/contacts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var limit, page *int32
	if v, err := utils.ToUint(q.Get("limit")); err == nil && v > 0 {
		l := int32(v)
		limit = &l
	}
	if v, err := utils.ToUint(q.Get("page")); err == nil && v > 0 {
		p := int32(v)
		page = &p
	}

	contacts, err := h.svc.List(r.Context(), limit, page)
	if err != nil {
		logger.FromCtx(r.Context()).Error("contact list failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to list messages", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"contacts": contacts})
}
