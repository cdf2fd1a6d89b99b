package response

import "github.com/gin-gonic/gin"

const (
	CodeBadRequest          = 40000
	CodeInvalidPayload      = 40001
	CodeTranscriptsDisabled = 40401
	CodeInternalServer      = 50000
	CodeIndexNotReady       = 50301
	CodeModelNotReady       = 50302
)

type ErrorBody struct {
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}

// OK writes payload as-is; success bodies carry no envelope.
func OK(c *gin.Context, payload any) {
	c.JSON(200, payload)
}

func Error(c *gin.Context, httpStatus, code int, detail string) {
	c.AbortWithStatusJSON(httpStatus, ErrorBody{
		Code:   code,
		Detail: detail,
	})
}
