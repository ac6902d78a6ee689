package product

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

// List is GET /products. The public listing only returns active products;
// admins pass ?all=true to include disabled ones.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := QueryOptions{OnlyActive: q.Get("all") != "true"}

	if f := q.Get("filter"); f != "" {
		opts.Filter = &f
	}
	if v, err := utils.ToUint(q.Get("category_id")); err == nil && v > 0 {
		opts.CategoryID = &v
	}
	if v, err := utils.ToUint(q.Get("limit")); err == nil && v > 0 {
		l := int32(v)
		opts.Limit = &l
	}
	if v, err := utils.ToUint(q.Get("page")); err == nil && v > 0 {
		p := int32(v)
		opts.Page = &p
	}

	products, err := h.svc.GetProducts(r.Context(), opts)
	if err != nil {
		logger.FromCtx(r.Context()).Error("product list failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to list products", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// Get is GET /products/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.GetProductByID(r.Context(), id)
	if errors.Is(err, ErrProductNotFound) {
		utils.WriteJSONError(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		utils.WriteJSONError(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}

// Create is POST /admin/products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input NewProduct
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	p, err := h.svc.Create(r.Context(), input)
	if err != nil {
		if utils.WriteValidationError(w, err) {
			return
		}
		logger.FromCtx(r.Context()).Error("product create failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to create product", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, p)
}

// Update is PUT /admin/products/{id}, a partial mutation.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ToUint(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var input UpdateProduct
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	p, err := h.svc.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case utils.WriteValidationError(w, err):
		case errors.Is(err, ErrProductNotFound):
			utils.WriteJSONError(w, "product not found", http.StatusNotFound)
		default:
			logger.FromCtx(r.Context()).Error("product update failed", zap.Error(err))
			utils.WriteJSONError(w, "failed to update product", http.StatusInternalServerError)
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}
