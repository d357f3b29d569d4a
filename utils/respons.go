package utils

import (
	"github.com/gin-gonic/gin"
)

type JSONResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Message: message,
		Data:    data,
	})
}

// RespondError writes the {"error": ...} body every endpoint uses for
// validation and unexpected failures.
func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, ErrorResponse{Error: err.Error()})
}
