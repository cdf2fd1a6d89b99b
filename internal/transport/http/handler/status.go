package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"awsml-tutor/internal/app"
	"awsml-tutor/internal/transport/http/response"
)

type StatusHandler struct {
	status *app.StatusService
}

type RootResponse struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	RAGInitialized  bool   `json:"rag_initialized"`
	DocumentsLoaded int    `json:"documents_loaded"`
}

func NewStatusHandler(status *app.StatusService) *StatusHandler {
	return &StatusHandler{status: status}
}

func (h *StatusHandler) Root(c *gin.Context) {
	st := h.status.Status(c.Request.Context())
	response.OK(c, RootResponse{
		Status:          "online",
		Message:         "AWS AI Learning Platform API",
		RAGInitialized:  st.Initialized,
		DocumentsLoaded: st.Documents,
	})
}

func (h *StatusHandler) Stats(c *gin.Context) {
	stats, err := h.status.Stats(c.Request.Context())
	if errors.Is(err, app.ErrIndexNotReady) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Vector store not initialized"})
		return
	}
	if err != nil {
		writeError(c, err, "reading stats")
		return
	}
	response.OK(c, stats)
}

func (h *StatusHandler) Topics(c *gin.Context) {
	response.OK(c, app.Topics)
}
