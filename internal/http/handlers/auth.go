package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/http/flash"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/middleware"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/render"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/validation"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/pkg/view"
)

const homePath = "/dashboard"

// normalizeReturnTo only accepts local absolute paths.
func normalizeReturnTo(s string) string {
	if s == "" || s[0] != '/' {
		return ""
	}
	if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/\\") {
		return ""
	}
	if strings.Contains(s, "://") {
		return ""
	}
	if s == "/login" || strings.HasPrefix(s, "/login?") {
		return ""
	}
	return s
}

type AuthHandlers struct {
	flash *flash.Codec
	log   *slog.Logger
}

func NewAuthHandlers(flashCodec *flash.Codec, l *slog.Logger) *AuthHandlers {
	if l == nil {
		l = slog.Default()
	}
	return &AuthHandlers{flash: flashCodec, log: l}
}

type loginInput struct {
	MobileNumber string `form:"mobile_number" binding:"required,numeric,min=10,max=15"`
	Password     string `form:"password" binding:"required,max=128"`
}

// Root sends operators to the dashboard and everyone else to login.
func (h *AuthHandlers) Root(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, homePath)
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandlers) loginPage(c *gin.Context, status int, returnTo string, form view.LoginForm, errs map[string]string, msg string) {
	render.Page(c, status, "login.html", view.LoginPage{
		Flash:     middleware.GetFlash(c),
		CSRFToken: middleware.GetCSRFToken(c),
		ReturnTo:  returnTo,
		Form:      form,
		Errors:    errs,
		Error:     msg,
	})
}

func (h *AuthHandlers) LoginGet(c *gin.Context) {
	if u, ok := middleware.CurrentUser(c); ok && u.IsAdmin() {
		c.Redirect(http.StatusFound, homePath)
		return
	}
	h.loginPage(c, http.StatusOK, normalizeReturnTo(c.Query("return_to")), view.LoginForm{}, nil, "")
}

// LoginPost exchanges the credentials for a token at the remote API and
// stores it in the console's session.
func (h *AuthHandlers) LoginPost(c *gin.Context) {
	returnTo := normalizeReturnTo(c.PostForm("return_to"))
	cons := middleware.CurrentConsole(c)

	var in loginInput
	if err := c.ShouldBind(&in); err != nil {
		h.loginPage(c, http.StatusBadRequest, returnTo, view.LoginForm{MobileNumber: in.MobileNumber},
			validation.FromBindError(err, &in), "")
		return
	}
	form := view.LoginForm{MobileNumber: in.MobileNumber}

	res, err := cons.API.Login(c.Request.Context(), in.MobileNumber, in.Password)
	if err != nil {
		status := http.StatusUnauthorized
		var ae *rbslot.AuthError
		if !errors.As(err, &ae) {
			status = http.StatusBadGateway
		}
		h.log.LogAttrs(c.Request.Context(), slog.LevelWarn, "login_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("console_id", cons.ID),
			slog.Any("err", err),
		)
		h.loginPage(c, status, returnTo, form, nil, rbslot.Message(err))
		return
	}

	if !res.User.IsAdmin() {
		h.loginPage(c, http.StatusForbidden, returnTo, form, nil, "This account has no admin access.")
		return
	}

	if prev, ok := cons.Session.User(); !ok || prev.UserID != res.User.UserID {
		cons.Reset()
	}
	if err := cons.Session.Set(c.Request.Context(), res.Token, res.User); err != nil {
		middleware.Fail(c, err)
		return
	}
	cons.TakeLoginRedirect()

	h.log.LogAttrs(c.Request.Context(), slog.LevelInfo, "login_succeeded",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("console_id", cons.ID),
		slog.String("user_id", res.User.UserID),
	)

	dest := homePath
	if returnTo != "" {
		dest = returnTo
	}
	render.RedirectWithFlash(c, h.flash, dest, view.FlashSuccess, "Authentication successful.")
}

func (h *AuthHandlers) LogoutPost(c *gin.Context) {
	cons := middleware.CurrentConsole(c)
	if err := cons.Session.Clear(c.Request.Context()); err != nil {
		h.log.Warn("session_clear_failed", slog.String("console_id", cons.ID), slog.Any("err", err))
	}
	cons.Reset()
	render.RedirectWithFlash(c, h.flash, "/login", view.FlashInfo, "Signed out.")
}
