// Package middleware provides the request gates and response headers shared
// by all routes.
package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoCache forbids any client or intermediary caching, so back-navigation
// after logout cannot replay a protected page from the browser cache.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, private")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}
