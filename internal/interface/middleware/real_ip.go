package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/portofolio/internal/application"
)

const CtxRealIP = "real_ip"

// RealIP stores the client address under CtxRealIP.
// Priority: CF-Connecting-IP, the left-most X-Forwarded-For, c.ClientIP().
// The address and user agent are also attached to the request context for
// audit entries.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := clientAddr(c)
		c.Set(CtxRealIP, ip)
		ctx := application.WithClient(c.Request.Context(), application.ClientInfo{
			IP:        ip,
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func clientAddr(c *gin.Context) string {
	if cf := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); cf != "" {
		if ip := net.ParseIP(cf); ip != nil {
			return ip.String()
		}
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return c.ClientIP()
}
