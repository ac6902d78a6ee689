package category

import (
	"encoding/json"
	"errors"
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

// List is GET /categories.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter *string
	if f := q.Get("filter"); f != "" {
		filter = &f
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

	categories, err := h.svc.GetCategories(r.Context(), filter, limit, page)
	if err != nil {
		logger.FromCtx(r.Context()).Error("category list failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to list categories", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

type categoryInput struct {
	Name string `json:"name"`
}

// Create is POST /admin/categories.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input categoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	c, err := h.svc.AddCategory(r.Context(), input.Name)
	if err != nil {
		if utils.WriteValidationError(w, err) {
			return
		}
		logger.FromCtx(r.Context()).Error("category create failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to create category", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, c)
}

// Update is PUT /admin/categories/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	var input categoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	c, err := h.svc.UpdateCategory(r.Context(), id, input.Name)
	if err != nil {
		switch {
		case utils.WriteValidationError(w, err):
		case errors.Is(err, ErrCategoryNotFound):
			utils.WriteJSONError(w, "category not found", http.StatusNotFound)
		default:
			logger.FromCtx(r.Context()).Error("category update failed", zap.Error(err))
			utils.WriteJSONError(w, "failed to update category", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, c)
}
