// Package admin serves the console pages of a signed-in operator.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/http/flash"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/middleware"
	"github.com/devgjhbj-wq/admin-nexus/internal/listctl"
	"github.com/devgjhbj-wq/admin-nexus/internal/modules/decisions"
	"github.com/devgjhbj-wq/admin-nexus/internal/mutation"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/internal/shared/apperr"
	"github.com/devgjhbj-wq/admin-nexus/pkg/view"
)

type Handler struct {
	Flash     *flash.Codec
	Decisions decisions.Log
	// AwaitTimeout bounds how long a page waits for its list; a slower
	// list renders as loading.
	AwaitTimeout time.Duration
	Log          *slog.Logger
}

func New(flashCodec *flash.Codec, log decisions.Log, awaitTimeout time.Duration, l *slog.Logger) *Handler {
	if l == nil {
		l = slog.Default()
	}
	return &Handler{Flash: flashCodec, Decisions: log, AwaitTimeout: awaitTimeout, Log: l}
}

func (h *Handler) layout(c *gin.Context, title, active string) view.Layout {
	lay := view.Layout{
		Title:     title,
		Nav:       view.Nav(active),
		Flash:     middleware.GetFlash(c),
		CSRFToken: middleware.GetCSRFToken(c),
	}
	cons := middleware.CurrentConsole(c)
	if u, ok := cons.Session.User(); ok {
		lay.Operator = u.MobileNumber
	}
	if exp, ok := cons.Session.Expiry(); ok {
		lay.SessionExpires = exp.Local().Format("Jan 02 15:04")
	}
	return lay
}

// awaitList waits for a list to settle. A settled 401 is returned as an
// error so ErrorHandler can send the browser to the login page.
func awaitList[T any](c *gin.Context, h *Handler, await func(context.Context) (listctl.State[T], error)) (listctl.State[T], error) {
	ctx := c.Request.Context()
	if h.AwaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.AwaitTimeout)
		defer cancel()
	}
	st, _ := await(ctx)
	if st.Err != nil && errors.Is(st.Err, rbslot.ErrSessionExpired) {
		return st, st.Err
	}
	return st, nil
}

// upstream turns an API error into the web taxonomy; 401s pass through
// untouched.
func upstream(err error) error {
	if errors.Is(err, rbslot.ErrSessionExpired) {
		return err
	}
	var re *rbslot.RequestError
	if errors.As(err, &re) {
		return apperr.FromStatus(re.Status, re.Message, err)
	}
	return apperr.UpstreamErr(rbslot.Message(err), err)
}

func parsePage(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// href builds path?query dropping empty values.
func href(path string, kv ...string) string {
	q := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			q.Set(kv[i], kv[i+1])
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// actionURL is the POST target of a decision on id.
func actionURL(resource, id string, action mutation.Action, kv ...string) string {
	return href("/"+resource+"/"+url.PathEscape(id)+"/"+string(action), kv...)
}

func pageParam(n int) string {
	if n <= 1 {
		return ""
	}
	return strconv.Itoa(n)
}

func listError(err error) string {
	if err == nil {
		return ""
	}
	return rbslot.Message(err)
}

func dateTime(t rbslot.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 02, 2006 15:04")
}

func date(t rbslot.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 02, 2006")
}
