package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/http/flash"
	"github.com/devgjhbj-wq/admin-nexus/pkg/view"
)

// RequireAdmin runs after RequireAuth. A non-admin session is signed out:
// the console has nothing it could show it.
func RequireAdmin(flashCodec *flash.Codec, l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			DenyLogin(c, flashCodec, msgLoginRequired)
			return
		}
		if u.IsAdmin() {
			c.Next()
			return
		}

		l.LogAttrs(c.Request.Context(), slog.LevelWarn, "non_admin_session",
			slog.String("request_id", GetRequestID(c)),
			slog.String("user_id", u.UserID),
			slog.String("role", u.Role),
		)

		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "admin role required",
				"request_id": GetRequestID(c),
			})
			return
		}

		cons := CurrentConsole(c)
		if err := cons.Session.Clear(c.Request.Context()); err != nil {
			l.Warn("session_clear_failed", slog.Any("err", err))
		}
		cons.Reset()

		SetFlashCookie(c, flashCodec, view.Flash{
			Kind:    view.FlashError,
			Message: "This account has no admin access.",
		})
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}
