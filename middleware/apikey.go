package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kayceelyoDev/RoomManagement-sub001/utils"
)

// RequireAPIKey gates staff-only routes behind a shared key supplied in the
// X-API-Key header. An empty configured key disables the check (dev mode);
// real authentication lives outside this service.
func RequireAPIKey(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		got := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
			utils.JSONErrorWithCode(c, http.StatusUnauthorized, "unauthorized", "missing or invalid API key")
			c.Abort()
			return
		}
		c.Next()
	}
}
