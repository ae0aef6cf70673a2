package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/http/middleware"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/render"
	"github.com/devgjhbj-wq/admin-nexus/internal/mutation"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/internal/shared/apperr"
	"github.com/devgjhbj-wq/admin-nexus/pkg/view"
)

// notPending refuses a decision on a record the loaded page already shows
// as settled.
func notPending(subject, status string) error {
	return apperr.ConflictErr(subject + " is already " + status + ".")
}

func pastTense(a mutation.Action) string {
	if a == mutation.Approve {
		return "approved"
	}
	return "rejected"
}

// settle answers a decision POST: success closes the detail, a failure
// reopens it with the reason, a 401 goes to login. JSON clients get the
// upstream status mapped through apperr instead.
func (h *Handler) settle(c *gin.Context, err error, subject string, action mutation.Action, closed, reopen string) {
	if middleware.WantsJSON(c) && !errors.Is(err, rbslot.ErrSessionExpired) {
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": subject + " " + pastTense(action) + "."})
		case errors.Is(err, mutation.ErrInFlight):
			_ = c.Error(apperr.ConflictErr("Another decision is still in progress."))
		case isAppErr(err):
			_ = c.Error(err)
		default:
			_ = c.Error(upstream(err))
		}
		return
	}

	switch {
	case err == nil:
		render.RedirectWithFlash(c, h.Flash, closed, view.FlashSuccess, subject+" "+pastTense(action)+".")
	case errors.Is(err, rbslot.ErrSessionExpired):
		_ = c.Error(err)
	case errors.Is(err, mutation.ErrInFlight):
		render.RedirectWithFlash(c, h.Flash, reopen, view.FlashWarning, "Another decision is still in progress.")
	case isAppErr(err):
		render.RedirectWithFlash(c, h.Flash, reopen, view.FlashError, apperr.PublicMessage(err))
	default:
		h.Log.LogAttrs(c.Request.Context(), slog.LevelWarn, "decision_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("subject", subject),
			slog.String("action", string(action)),
			slog.Any("err", err),
		)
		render.RedirectWithFlash(c, h.Flash, reopen, view.FlashError, "Could not update "+subject+": "+rbslot.Message(err))
	}
}

func isAppErr(err error) bool {
	_, ok := apperr.As(err)
	return ok
}
