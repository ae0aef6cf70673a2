package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/http/middleware"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/render"
	"github.com/devgjhbj-wq/admin-nexus/internal/modules/decisions"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/pkg/view"
)

const recentDecisions = 10

// Dashboard shows the platform totals and this deployment's latest
// decisions.
func (h *Handler) Dashboard(c *gin.Context) {
	cons := middleware.CurrentConsole(c)
	ctx := c.Request.Context()

	vm := view.DashboardPage{Layout: h.layout(c, "Dashboard", "/dashboard")}

	stats, err := cons.API.Stats(ctx)
	switch {
	case errors.Is(err, rbslot.ErrSessionExpired):
		_ = c.Error(err)
		return
	case err != nil:
		vm.StatsError = rbslot.Message(err)
	}
	vm.Stats = []view.StatCard{
		{Label: "Total Users", Value: strconv.FormatInt(stats.TotalUsers, 10)},
		{Label: "Total Transactions", Value: strconv.FormatInt(stats.TotalTransactions, 10)},
		{Label: "Total Balance", Value: view.INR(stats.TotalBalance, 0)},
	}

	if h.Decisions != nil {
		recent, err := h.Decisions.Recent(ctx, recentDecisions)
		if err != nil {
			h.Log.Warn("recent_decisions_failed", slog.Any("err", err))
		}
		vm.Decisions = decisionRows(recent)
	}

	render.Page(c, http.StatusOK, "dashboard.html", vm)
}

func decisionRows(ds []decisions.Decision) []view.DecisionRow {
	out := make([]view.DecisionRow, 0, len(ds))
	for _, d := range ds {
		out = append(out, view.DecisionRow{
			At:       d.CreatedAt.Local().Format("Jan 02 15:04:05"),
			Resource: d.Resource,
			OrderID:  d.OrderID,
			Action:   d.Action,
			Outcome:  view.Badge(string(d.Outcome)),
			Note:     d.NoteText(),
			Error:    d.ErrorText(),
		})
	}
	return out
}
