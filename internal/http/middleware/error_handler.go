package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/http/flash"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/internal/shared/apperr"
	"github.com/devgjhbj-wq/admin-nexus/pkg/view"
)

func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorHandler renders the last error of an unanswered request. Upstream
// session expiry always ends on the login page.
func ErrorHandler(l *slog.Logger, flashCodec *flash.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		rid := GetRequestID(c)

		if errors.Is(err, rbslot.ErrSessionExpired) {
			if cons := CurrentConsole(c); cons != nil {
				cons.TakeLoginRedirect()
			}
			l.LogAttrs(c.Request.Context(), slog.LevelInfo, "session_expired",
				slog.String("request_id", rid),
				slog.String("path", c.Request.URL.Path),
			)
			DenyLogin(c, flashCodec, msgSessionExpired)
			return
		}

		status := apperr.HTTPStatus(err)
		publicMsg := apperr.PublicMessage(err)

		level := slog.LevelError
		if status < 500 {
			level = slog.LevelWarn
		}
		l.LogAttrs(c.Request.Context(), level, "request_failed",
			slog.String("request_id", rid),
			slog.Int("status", status),
			slog.Any("err", err),
		)

		if WantsJSON(c) {
			payload := gin.H{
				"error":      publicMsg,
				"request_id": rid,
			}
			if ae, ok := apperr.As(err); ok && len(ae.Fields) > 0 {
				payload["fields"] = ae.Fields
			}
			c.AbortWithStatusJSON(status, payload)
			return
		}

		c.Abort()
		c.HTML(status, "error.html", view.ErrorPage{
			Status:     status,
			StatusText: http.StatusText(status),
			Message:    publicMsg,
			RequestID:  rid,
			Flash:      GetFlash(c),
		})
	}
}
