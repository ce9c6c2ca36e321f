package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// RequestRecorder counts served requests
type RequestRecorder interface {
	HTTPRequest(method, route, status string)
}

// Metrics counts every request by method, matched route and status
func Metrics(recorder RequestRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.HTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}
