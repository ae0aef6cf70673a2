package admin

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/console"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/middleware"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/render"
	"github.com/devgjhbj-wq/admin-nexus/internal/listctl"
	"github.com/devgjhbj-wq/admin-nexus/internal/mutation"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/internal/shared/apperr"
	"github.com/devgjhbj-wq/admin-nexus/pkg/view"
)

// depositStatus shows the normalized badge and, when it differs, the
// gateway's own wording.
func depositStatus(d rbslot.Deposit) template.HTML {
	b := view.Badge(string(d.Status))
	if d.RawStatus != "" && !strings.EqualFold(d.RawStatus, string(d.Status)) {
		b += template.HTML(` <span class="muted">`) + view.Text(d.RawStatus) + template.HTML(`</span>`)
	}
	return b
}

func depositsTable(rowHref func(rbslot.Deposit) string) view.Table[rbslot.Deposit] {
	return view.Table[rbslot.Deposit]{
		Columns: []view.Column[rbslot.Deposit]{
			{Key: "order_id", Header: "Order ID", Render: func(d rbslot.Deposit) template.HTML { return view.Mono(d.OrderID, "-") }},
			{Key: "user_id", Header: "User ID", Class: "mono"},
			{Key: "amount", Header: "Amount", Class: "mono", Render: func(d rbslot.Deposit) template.HTML { return view.Text(view.Money(d.Amount, d.Currency)) }},
			{Key: "status", Header: "Status", Render: depositStatus},
			{Key: "utr", Header: "UTR", Render: func(d rbslot.Deposit) template.HTML { return view.Mono(d.UTR, "-") }},
			{Key: "created_at", Header: "Created", Render: func(d rbslot.Deposit) template.HTML { return view.Text(dateTime(d.CreatedAt)) }},
		},
		EmptyMessage: "No deposits found",
		RowHref:      rowHref,
		Cards: view.CardList[rbslot.Deposit]{Card: func(d rbslot.Deposit) view.Card {
			return view.Card{
				Title:    d.OrderID,
				Subtitle: d.UserID,
				Badge:    view.Badge(string(d.Status)),
				Fields: []view.Field{
					view.TextField("Amount", view.Money(d.Amount, d.Currency)),
					{Label: "UTR", Value: view.Mono(d.UTR, "-")},
					view.TextField("Created", dateTime(d.CreatedAt)),
				},
			}
		}},
	}
}

// depositQuery is the page/filter part of every deposits URL.
type depositQuery struct {
	page   string
	filter rbslot.DepositFilter
}

func (q depositQuery) kv(extra ...string) []string {
	return append([]string{"page", q.page, "user_id", q.filter.UserID, "order_id", q.filter.OrderID}, extra...)
}

// Deposits searches deposits by user id or order id; an order id search
// ignores the user id and the page.
func (h *Handler) Deposits(c *gin.Context) {
	cons := middleware.CurrentConsole(c)
	list := cons.Deposits(listctl.Query[rbslot.DepositFilter]{
		Page:    parsePage(c.Query("page")),
		Filters: rbslot.DepositFilter{UserID: c.Query("user_id"), OrderID: c.Query("order_id")},
	})

	st, err := awaitList(c, h, list.Await)
	if err != nil {
		_ = c.Error(err)
		return
	}

	q := depositQuery{page: pageParam(st.Page), filter: list.Query().Filters}
	tbl := depositsTable(func(d rbslot.Deposit) string {
		return href("/deposits", q.kv("open", d.OrderID)...)
	})
	vm := view.ListPage{
		Layout:   h.layout(c, "Deposits", "/deposits"),
		Heading:  "Deposits",
		Subtitle: fmt.Sprintf("%d deposits", st.TotalRecords),
		Search:   &view.DepositSearch{UserID: q.filter.UserID, OrderID: q.filter.OrderID},
		Table: tbl.Build(st.Items, st.Loading, view.NewPager(st.Page, st.TotalPages, func(p int) string {
			next := q
			next.page = pageParam(p)
			return href("/deposits", next.kv()...)
		})),
		Error: listError(st.Err),
	}
	if id := c.Query("open"); id != "" && !st.Loading {
		vm.Detail = depositDetail(cons, st.Items, id, q, middleware.GetCSRFToken(c))
	}

	render.Page(c, http.StatusOK, "list.html", vm)
}

func depositDetail(cons *console.Console, items []rbslot.Deposit, id string, q depositQuery, csrf string) *view.Detail {
	closeHref := href("/deposits", q.kv()...)

	var found *rbslot.Deposit
	for i := range items {
		if items[i].OrderID == id {
			found = &items[i]
			break
		}
	}
	if found == nil {
		d := view.NewDetail("Deposit "+id, false, nil)
		d.CloseHref = closeHref
		d.Error = "This deposit is not in the current results."
		return d
	}

	d := view.NewDetail("Deposit "+id, found.Status.Pending(), &view.DetailActions{
		ApproveURL: actionURL("deposits", id, mutation.Approve, q.kv()...),
		RejectURL:  actionURL("deposits", id, mutation.Reject, q.kv()...),
		CSRFToken:  csrf,
		WithNote:   true,
		Disabled:   cons.DepositStatus.InFlight(),
	})
	d.CloseHref = closeHref
	d.Badge = depositStatus(*found)
	d.Fields = []view.Field{
		{Label: "Order ID", Value: view.Mono(found.OrderID, "-")},
		{Label: "User ID", Value: view.Mono(found.UserID, "-")},
		view.TextField("Amount", view.Money(found.Amount, found.Currency)),
		{Label: "UTR", Value: view.Mono(found.UTR, "-")},
		view.TextField("Created", dateTime(found.CreatedAt)),
		view.TextField("Updated", dateTime(found.UpdatedAt)),
	}
	if found.GatewayOrderNo != "" {
		d.Fields = append(d.Fields, view.Field{Label: "Gateway order", Value: view.Mono(found.GatewayOrderNo, "-")})
	}
	if f, ok := cons.DepositStatus.LastFailure(); ok && f.Target.ID == id {
		d.Error = rbslot.Message(f.Err)
		cons.DepositStatus.DismissFailure()
	}
	return d
}

// DepositAction marks a pending deposit SUCCESS or FAILED with the
// operator's note, or the default note when none was typed.
func (h *Handler) DepositAction(c *gin.Context) {
	cons := middleware.CurrentConsole(c)
	id := c.Param("orderId")
	action, err := mutation.ParseAction(c.Param("action"))
	if err != nil {
		_ = c.Error(apperr.NotFoundErr("Unknown action."))
		return
	}

	q := depositQuery{
		page:   pageParam(parsePage(c.Query("page"))),
		filter: rbslot.DepositFilter{UserID: c.Query("user_id"), OrderID: c.Query("order_id")}.Normalize(),
	}
	if d, ok := cons.LoadedDeposit(id); ok && !d.Status.Pending() {
		err = notPending("Deposit "+id, string(d.Status))
	} else {
		t := console.DepositTarget(action, id, strings.TrimSpace(c.PostForm("note")))
		_, err = cons.DepositStatus.Execute(c.Request.Context(), t)
	}
	h.settle(c, err, "Deposit "+id, action,
		href("/deposits", q.kv()...),
		href("/deposits", q.kv("open", id)...),
	)
}
