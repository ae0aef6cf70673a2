package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/http/consolecookie"
	"github.com/devgjhbj-wq/admin-nexus/internal/shared/apperr"
)

const (
	FormCSRFField   = "csrf_token"
	HeaderCSRFToken = "X-CSRF-Token"
)

const CtxKeyCSRF = "csrf_token"

// CSRF exposes the console's form token to handlers and rejects
// state-changing requests that do not echo it. Must run after Consoles.
func CSRF(codec *consolecookie.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		cons := CurrentConsole(c)
		if cons != nil {
			c.Set(CtxKeyCSRF, codec.CSRFToken(cons.ID))
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		tok := c.PostForm(FormCSRFField)
		if tok == "" {
			tok = c.GetHeader(HeaderCSRFToken)
		}
		if cons == nil || !codec.VerifyCSRF(cons.ID, tok) {
			Fail(c, apperr.ForbiddenErr("Your form expired. Reload the page and try again."))
			return
		}
		c.Next()
	}
}

func GetCSRFToken(c *gin.Context) string {
	return c.GetString(CtxKeyCSRF)
}
