package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/http/flash"
	"github.com/devgjhbj-wq/admin-nexus/pkg/view"
)

const (
	msgLoginRequired  = "Please log in to continue."
	msgSessionExpired = "Your session expired. Please log in again."
)

// RequireAuth lets the request through only for a signed-in console.
// A login redirect left pending by an upstream 401 is consumed here.
func RequireAuth(flashCodec *flash.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		cons := CurrentConsole(c)
		if cons == nil {
			DenyLogin(c, flashCodec, msgLoginRequired)
			return
		}

		expired := cons.TakeLoginRedirect()
		if cons.Session.Authenticated() {
			c.Next()
			return
		}
		msg := msgLoginRequired
		if expired {
			msg = msgSessionExpired
		}
		DenyLogin(c, flashCodec, msg)
	}
}

// DenyLogin answers 401 to JSON clients and sends browsers to the login
// page, remembering where they were for GET requests.
func DenyLogin(c *gin.Context, flashCodec *flash.Codec, msg string) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":      msg,
			"request_id": GetRequestID(c),
		})
		return
	}

	SetFlashCookie(c, flashCodec, view.Flash{Kind: view.FlashWarning, Message: msg})
	dest := "/login"
	if c.Request.Method == http.MethodGet {
		dest += "?return_to=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusFound, dest)
	c.Abort()
}
