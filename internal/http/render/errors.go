package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/http/middleware"
	"github.com/devgjhbj-wq/admin-nexus/pkg/view"
)

func ErrorPage(c *gin.Context, status int, msg string) {
	Page(c, status, "error.html", view.ErrorPage{
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    msg,
		RequestID:  middleware.GetRequestID(c),
		Flash:      middleware.GetFlash(c),
	})
}
