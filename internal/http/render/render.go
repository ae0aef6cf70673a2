package render

import (
	"github.com/gin-gonic/gin"
)

// Page renders one of the embedded templates.
func Page(c *gin.Context, status int, name string, data any) {
	c.HTML(status, name, data)
}
