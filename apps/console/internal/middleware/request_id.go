package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/storefront-console/pkg/requestid"
)

const (
	// RequestIDHeader is the header key for request ID
	RequestIDHeader = requestid.Header
	// RequestIDKey is the gin context key for request ID
	RequestIDKey = "request_id"
)

// RequestID tags each request with an id, reusing the caller's when given.
// The id is also put on the request context so storefront calls carry it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if request ID already exists in header
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = requestid.New()
		}

		// Set request ID in context and response header
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(requestid.WithContext(c.Request.Context(), id))

		c.Next()
	}
}

// GetRequestID returns the request ID from context
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if requestID, ok := id.(string); ok {
			return requestID
		}
	}
	return ""
}
