package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope of every API reply. Data is always present,
// null when there is nothing to return.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func NewSuccessResponse(message string, data interface{}) Response {
	return Response{Status: 200, Message: message, Data: data}
}

func NewErrorResponse(status int, message string) Response {
	return Response{Status: status, Message: message}
}

// Fail writes an error envelope and stops the handler chain.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, NewErrorResponse(status, message))
}
