package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const corsMaxAge = "600"

// corsOrigins is the allow list; "*" admits every origin.
type corsOrigins struct {
	any   bool
	exact map[string]struct{}
}

func newCORSOrigins(list []string) corsOrigins {
	o := corsOrigins{exact: make(map[string]struct{}, len(list))}
	for _, raw := range list {
		switch trimmed := strings.TrimRight(strings.TrimSpace(raw), "/"); trimmed {
		case "":
		case "*":
			o.any = true
		default:
			o.exact[trimmed] = struct{}{}
		}
	}
	return o
}

func (o corsOrigins) allows(origin string) bool {
	if o.any {
		return true
	}
	_, ok := o.exact[origin]
	return ok
}

// CORS echoes allowed origins and short-circuits preflight requests.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	origins := newCORSOrigins(allowedOrigins)

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" && origins.allows(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
			h.Set("Access-Control-Expose-Headers", "X-Request-Id, Content-Disposition, Retry-After")
			h.Set("Access-Control-Max-Age", corsMaxAge)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
