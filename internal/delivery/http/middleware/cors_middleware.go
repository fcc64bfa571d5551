package middleware

import (
	"net/http"
	"time"

	"contact-mailer-backend/internal/delivery/http/response"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// MsgDisallowedOrigin is the preflight rejection body for foreign origins.
const MsgDisallowedOrigin = "Disallowed CORS origin"

// CORSMiddleware allows cross-origin calls from the configured front-end
// origin only. Credentials are allowed, so the origin is echoed rather than "*".
//
// Simple requests from any other origin are served without CORS headers and
// the browser withholds the response; their preflights get 400.
func CORSMiddleware(frontendOrigin string) gin.HandlerFunc {
	allowed := cors.New(cors.Config{
		AllowOrigins:     []string{frontendOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || origin == frontendOrigin {
			allowed(c)
			return
		}

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			response.Error(c, http.StatusBadRequest, MsgDisallowedOrigin)
			return
		}
		c.Next()
	}
}
