package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/console"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/consolecookie"
	"github.com/devgjhbj-wq/admin-nexus/internal/session"
)

const CtxKeyConsole = "console"

// Consoles attaches the browser's console, issuing a new console id (and
// cookie) when the request carries none or a forged one.
func Consoles(reg *console.Registry, codec *consolecookie.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := codec.Get(c)
		if !ok || !console.ValidID(id) {
			id = console.NewID()
			codec.Set(c, id)
		}
		c.Set(CtxKeyConsole, reg.Get(c.Request.Context(), id))
		c.Next()
	}
}

// CurrentConsole is nil outside the Consoles middleware.
func CurrentConsole(c *gin.Context) *console.Console {
	if v, ok := c.Get(CtxKeyConsole); ok {
		if cons, ok := v.(*console.Console); ok {
			return cons
		}
	}
	return nil
}

// CurrentUser is the signed-in operator of the request's console.
func CurrentUser(c *gin.Context) (session.User, bool) {
	cons := CurrentConsole(c)
	if cons == nil || !cons.Session.Authenticated() {
		return session.User{}, false
	}
	return cons.Session.User()
}
