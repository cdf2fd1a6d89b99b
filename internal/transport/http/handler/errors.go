package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"awsml-tutor/internal/app"
	"awsml-tutor/internal/pkg/logger"
	"awsml-tutor/internal/transport/http/response"
)

// writeError maps service errors onto status codes. Upstream failures keep
// their message so callers can see what broke.
func writeError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrIndexNotReady):
		response.Error(c, http.StatusServiceUnavailable, response.CodeIndexNotReady, "RAG system not initialized")
	case errors.Is(err, app.ErrGeneratorNotReady):
		response.Error(c, http.StatusServiceUnavailable, response.CodeModelNotReady, "language model not initialized")
	case errors.Is(err, app.ErrTranscriptsDisabled):
		response.Error(c, http.StatusNotFound, response.CodeTranscriptsDisabled, err.Error())
	default:
		logger.FromContext(c.Request.Context()).Error(action+" failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "Error "+action+": "+err.Error())
	}
}

func badPayload(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, response.CodeInvalidPayload, "invalid request payload: "+err.Error())
}
