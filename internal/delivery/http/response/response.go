package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
// Detail is a string, or a list of field errors for validation failures.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}

// Success sends a success response
func Success(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// Error sends an error response and stops the handler chain
func Error(c *gin.Context, code int, detail interface{}) {
	c.AbortWithStatusJSON(code, ErrorResponse{Detail: detail})
}
