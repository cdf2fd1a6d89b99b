package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"awsml-tutor/internal/transport/http/response"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger attaches a request-scoped zap logger, tagged with a request
// id, to the request context and logs each finished request.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		log := base.With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(ctxzap.ToContext(c.Request.Context(), log))

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request finished", fields...)
		case status >= 400:
			log.Warn("request finished", fields...)
		default:
			log.Info("request finished", fields...)
		}
	}
}

// Recovery turns panics into a 500 and logs them with the request logger.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		ctxzap.Extract(c.Request.Context()).Error("panic recovered", zap.Any("panic", recovered))
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "internal server error")
	})
}
