package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestLog tags each request with an id and logs mutations and failures.
// Successful reads are not logged to keep noise down.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		if c.Request.Method == "GET" && status < 400 {
			return
		}
		log.Printf("[HTTP] %s %s %s -> %d (%s)", id, c.Request.Method, c.Request.URL.Path, status, time.Since(start).Round(time.Millisecond))
	}
}
