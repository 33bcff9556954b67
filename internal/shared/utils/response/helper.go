package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success responds with a success envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}

// Error responds with an error envelope carrying the underlying error text.
func Error(c *gin.Context, code int, message string, err error) {
	var details interface{}
	if err != nil {
		details = err.Error()
	}
	RespondJSON(c, "error", code, message, nil, details)
}

// NotFound is a shorthand for the common 404 case.
func NotFound(c *gin.Context, message string) {
	RespondJSON(c, "error", http.StatusNotFound, message, nil, nil)
}
