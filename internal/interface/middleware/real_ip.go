package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP resolves the client IP behind proxies and stores it under
// "real_ip". X-Forwarded-For takes the left-most valid address; the
// Gin ClientIP is the fallback.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if ip := net.ParseIP(first); ip != nil {
				c.Set("real_ip", ip.String())
				c.Next()
				return
			}
		}
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
