package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultStorefrontHosts are the storefront and admin origins allowed when
// CORS_ALLOWED_HOSTS is unset.
var DefaultStorefrontHosts = []string{
	"localhost:3000",
	"127.0.0.1:3000",
	"kicks.ph",
	"www.kicks.ph",
	"admin.kicks.ph",
}

// originHost returns the lower-cased host of an origin URL without default ports.
func originHost(raw string) string {
	u, err := url.Parse(strings.TrimSpace(strings.TrimSuffix(raw, "/")))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	if strings.HasSuffix(host, ":443") || strings.HasSuffix(host, ":80") {
		host, _, _ = strings.Cut(host, ":")
	}
	return host
}

// CORSMiddleware lets the storefront and admin dashboard call the catalog API.
// Credentials are only echoed for allowed hosts; clients can read Retry-After
// from a throttled sync and the request id for support tickets.
func CORSMiddleware(hosts []string) gin.HandlerFunc {
	if len(hosts) == 0 {
		hosts = DefaultStorefrontHosts
	}
	allowed := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		allowed[strings.ToLower(strings.TrimSpace(h))] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			if u, err := url.Parse(c.GetHeader("Referer")); err == nil && u.Scheme != "" && u.Host != "" {
				origin = u.Scheme + "://" + u.Host
			}
		}
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")

		if host := originHost(origin); host != "" && allowed[host] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Expose-Headers", "Retry-After, X-Request-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
