package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"awsml-tutor/internal/app"
	"awsml-tutor/internal/model"
	"awsml-tutor/internal/transport/http/response"
)

type HistoryHandler struct {
	history *app.HistoryService
}

type HistoryResponse struct {
	History []model.Transcript `json:"history"`
}

func NewHistoryHandler(history *app.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

func (h *HistoryHandler) Recent(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	items, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err, "loading history")
		return
	}
	if items == nil {
		items = []model.Transcript{}
	}
	response.OK(c, HistoryResponse{History: items})
}
