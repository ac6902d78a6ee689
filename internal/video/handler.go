package video

import (
	"net/http"

	"libreria-be/internal/logger"
	"libreria-be/internal/utils"

	"go.uber.org/zap"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

// List is GET /videos.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v, err := utils.ToUint(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = int(v)
	}

	videos, err := h.client.ListLatest(r.Context(), limit)
	if err != nil {
		logger.FromCtx(r.Context()).Error("video list failed", zap.Error(err))
		utils.WriteJSONError(w, "failed to fetch videos", http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"videos": videos})
}
