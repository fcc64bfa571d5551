package middleware

import (
	"log/slog"
	"net/http"

	"contact-mailer-backend/internal/delivery/http/response"
	"contact-mailer-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorHandler turns the last error attached with c.Error into a JSON body.
func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := apperror.As(c.Errors.Last().Err)
		switch appErr.Kind {
		case apperror.KindValidation:
			response.Error(c, appErr.Code, appErr.Fields)
		case apperror.KindRateLimit:
			response.Error(c, appErr.Code, appErr.Message)
		default:
			// SECURITY: the cause is logged for operators, never sent to the client.
			log.Error("request failed",
				"kind", appErr.Kind.String(),
				"path", c.FullPath(),
				"request_id", c.GetString(RequestIDKey),
				"error", appErr.Err,
			)
			response.Error(c, appErr.Code, appErr.Message)
		}
	}
}

// Recovery converts panics into the generic 500 body so no request ends without one.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			"path", c.Request.URL.Path,
			"request_id", c.GetString(RequestIDKey),
			"panic", recovered,
		)
		response.Error(c, http.StatusInternalServerError, apperror.MsgUnexpected)
	})
}
