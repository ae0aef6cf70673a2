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

func signedAmount(t rbslot.Transaction) string {
	sign := "-"
	if strings.EqualFold(t.Type, "credit") || strings.EqualFold(t.Type, "deposit") {
		sign = "+"
	}
	return sign + view.INR(t.Amount, 0)
}

func transactionsTable(rowHref func(rbslot.Transaction) string) view.Table[rbslot.Transaction] {
	return view.Table[rbslot.Transaction]{
		Columns: []view.Column[rbslot.Transaction]{
			{Key: "orderId", Header: "Order ID", Render: func(t rbslot.Transaction) template.HTML { return view.Mono(t.OrderID, "-") }},
			{Key: "userId", Header: "User ID", Class: "mono"},
			{Key: "type", Header: "Type", Render: func(t rbslot.Transaction) template.HTML { return view.Badge(t.Type) }},
			{Key: "amount", Header: "Amount", Class: "mono", Render: func(t rbslot.Transaction) template.HTML { return view.Text(signedAmount(t)) }},
			{Key: "status", Header: "Status", Render: func(t rbslot.Transaction) template.HTML { return view.Badge(string(t.Status)) }},
			{Key: "createdAt", Header: "Date", Render: func(t rbslot.Transaction) template.HTML { return view.Text(dateTime(t.CreatedAt)) }},
		},
		EmptyMessage: "No transactions found",
		RowHref:      rowHref,
		Cards: view.CardList[rbslot.Transaction]{Card: func(t rbslot.Transaction) view.Card {
			return view.Card{
				Title:    t.OrderID,
				Subtitle: t.UserID,
				Badge:    view.Badge(string(t.Status)),
				Fields: []view.Field{
					view.TextField("Amount", signedAmount(t)),
					view.TextField("Type", t.Type),
					view.TextField("Date", dateTime(t.CreatedAt)),
				},
			}
		}},
	}
}

func (h *Handler) Transactions(c *gin.Context) {
	cons := middleware.CurrentConsole(c)
	list := cons.Transactions(listctl.Query[listctl.NoFilter]{Page: parsePage(c.Query("page"))})

	st, err := awaitList(c, h, list.Await)
	if err != nil {
		_ = c.Error(err)
		return
	}

	page := pageParam(st.Page)
	tbl := transactionsTable(func(t rbslot.Transaction) string {
		return href("/transactions", "page", page, "open", t.OrderID)
	})
	vm := view.ListPage{
		Layout:   h.layout(c, "Transactions", "/transactions"),
		Heading:  "Transactions",
		Subtitle: fmt.Sprintf("%d total transactions", st.TotalRecords),
		Table: tbl.Build(st.Items, st.Loading, view.NewPager(st.Page, st.TotalPages, func(p int) string {
			return href("/transactions", "page", pageParam(p))
		})),
		Error: listError(st.Err),
	}
	if id := c.Query("open"); id != "" && !st.Loading {
		vm.Detail = transactionDetail(cons, st.Items, id, page, middleware.GetCSRFToken(c))
	}

	render.Page(c, http.StatusOK, "list.html", vm)
}

func transactionDetail(cons *console.Console, items []rbslot.Transaction, id, page, csrf string) *view.Detail {
	var found *rbslot.Transaction
	for i := range items {
		if items[i].OrderID == id {
			found = &items[i]
			break
		}
	}
	if found == nil {
		d := view.NewDetail("Transaction "+id, false, nil)
		d.CloseHref = href("/transactions", "page", page)
		d.Error = "This transaction is not on the current page."
		return d
	}

	d := view.NewDetail("Transaction "+id, found.Status.Pending(), &view.DetailActions{
		ApproveURL: actionURL("transactions", id, mutation.Approve, "page", page),
		RejectURL:  actionURL("transactions", id, mutation.Reject, "page", page),
		CSRFToken:  csrf,
		Disabled:   cons.TransactionStatus.InFlight(),
	})
	d.CloseHref = href("/transactions", "page", page)
	d.Badge = view.Badge(string(found.Status))
	d.Fields = []view.Field{
		{Label: "Order ID", Value: view.Mono(found.OrderID, "-")},
		{Label: "User ID", Value: view.Mono(found.UserID, "-")},
		{Label: "Type", Value: view.Badge(found.Type)},
		view.TextField("Amount", signedAmount(*found)),
		view.TextField("Date", dateTime(found.CreatedAt)),
	}
	if ba := found.BankAccount(); ba != nil {
		d.Sections = append(d.Sections, view.Section{
			Title: "Bank account",
			Fields: []view.Field{
				view.TextField("Holder", ba.HolderName),
				{Label: "Account number", Value: view.Mono(ba.AccountNumber, "-")},
				{Label: "IFSC", Value: view.Mono(ba.IFSC, "-")},
				view.TextField("Bank", ba.BankName),
			},
		})
	}
	if f, ok := cons.TransactionStatus.LastFailure(); ok && f.Target.ID == id {
		d.Error = rbslot.Message(f.Err)
		cons.TransactionStatus.DismissFailure()
	}
	return d
}

// TransactionAction approves (completed) or rejects (failed) a pending
// transaction.
func (h *Handler) TransactionAction(c *gin.Context) {
	cons := middleware.CurrentConsole(c)
	id := c.Param("orderId")
	action, err := mutation.ParseAction(c.Param("action"))
	if err != nil {
		_ = c.Error(apperr.NotFoundErr("Unknown action."))
		return
	}

	page := pageParam(parsePage(c.Query("page")))
	if tx, ok := cons.LoadedTransaction(id); ok && !tx.Status.Pending() {
		err = notPending("Transaction "+id, string(tx.Status))
	} else {
		_, err = cons.TransactionStatus.Execute(c.Request.Context(), mutation.Target{Action: action, ID: id})
	}
	h.settle(c, err, "Transaction "+id, action,
		href("/transactions", "page", page),
		href("/transactions", "page", page, "open", id),
	)
}
