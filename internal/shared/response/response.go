package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is what every non-2xx response carries. Clients show message
// as the diagnostic text.
type ErrorBody struct {
	Ok      bool   `json:"ok"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func Error(c *gin.Context, status int, errorCode string, message string) {
	c.JSON(status, ErrorBody{
		Ok:      false,
		Code:    errorCode,
		Message: message,
	})
}

// AbortError writes the error and stops the handler chain.
func AbortError(c *gin.Context, status int, errorCode string, message string) {
	Error(c, status, errorCode, message)
	c.Abort()
}
