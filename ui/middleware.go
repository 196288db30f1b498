package ui

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestID echoes the caller's X-Request-ID or assigns a new one
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog logs each request and reports it to the observer
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		s.logger.Debug("%s %s %d %s id=%s", c.Request.Method, c.Request.URL.Path, status,
			time.Since(start), c.GetString("request_id"))

		if s.observer != nil {
			s.observer.ObserveRequest(routeLabel(c), status)
		}
	}
}

// routeLabel keeps metric labels bounded
func routeLabel(c *gin.Context) string {
	route := c.FullPath()
	switch {
	case route == "":
		return "unmatched"
	case route == "/api/*path" && c.Writer.Status() != 404:
		return c.Request.URL.Path
	}
	return route
}
