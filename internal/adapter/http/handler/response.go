package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorBody is the JSON body of every failed request. The error key carries
// the human readable message web clients display.
type ErrorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id"`
}

func requestID(c *gin.Context) string {
	id := c.GetString("request_id")
	if id == "" {
		id = uuid.New().String()
	}
	return id
}

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorBody{
		Error:     message,
		Code:      code,
		RequestID: requestID(c),
	})
}
