package admin

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/console"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/middleware"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/render"
	"github.com/devgjhbj-wq/admin-nexus/internal/listctl"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/pkg/view"
)

func usersTable(rowHref func(rbslot.User) string) view.Table[rbslot.User] {
	return view.Table[rbslot.User]{
		Columns: []view.Column[rbslot.User]{
			{Key: "userId", Header: "User ID", Render: func(u rbslot.User) template.HTML { return view.Mono(u.UserID, "-") }},
			{Key: "mobileNumber", Header: "Mobile", Class: "mono"},
			{Key: "role", Header: "Role", Render: func(u rbslot.User) template.HTML { return view.Badge(u.Role) }},
			{Key: "balance", Header: "Balance", Render: func(u rbslot.User) template.HTML { return view.Text(view.INR(u.Balance, 0)) }},
			{Key: "createdAt", Header: "Created", Render: func(u rbslot.User) template.HTML { return view.Text(date(u.CreatedAt)) }},
		},
		EmptyMessage: "No users found",
		RowHref:      rowHref,
		Cards: view.CardList[rbslot.User]{Card: func(u rbslot.User) view.Card {
			return view.Card{
				Title:    u.UserID,
				Subtitle: u.MobileNumber,
				Badge:    view.Badge(u.Role),
				Fields: []view.Field{
					view.TextField("Balance", view.INR(u.Balance, 0)),
					view.TextField("Created", date(u.CreatedAt)),
				},
			}
		}},
	}
}

func linkedCards(accounts []rbslot.LinkedAccount) []view.Card {
	out := make([]view.Card, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, view.Card{
			Title:    a.UserID,
			Subtitle: a.MobileNumber,
			Badge:    view.Badge(a.Role),
			Fields:   []view.Field{view.TextField("Balance", view.INR(a.Balance, 0))},
		})
	}
	return out
}

// Users lists users; ?open= shows one and ?linked=1 adds its linked
// accounts.
func (h *Handler) Users(c *gin.Context) {
	cons := middleware.CurrentConsole(c)
	list := cons.Users(listctl.Query[listctl.NoFilter]{Page: parsePage(c.Query("page"))})

	st, err := awaitList(c, h, list.Await)
	if err != nil {
		_ = c.Error(err)
		return
	}

	page := pageParam(st.Page)
	tbl := usersTable(func(u rbslot.User) string {
		return href("/users", "page", page, "open", u.UserID)
	})
	vm := view.ListPage{
		Layout:   h.layout(c, "Users", "/users"),
		Heading:  "Users",
		Subtitle: fmt.Sprintf("%d registered users", st.TotalRecords),
		Table: tbl.Build(st.Items, st.Loading, view.NewPager(st.Page, st.TotalPages, func(p int) string {
			return href("/users", "page", pageParam(p))
		})),
		Error: listError(st.Err),
	}

	if id := c.Query("open"); id != "" && !st.Loading {
		d, err := h.userDetail(c, cons, st.Items, id, page, c.Query("linked") == "1")
		if err != nil {
			_ = c.Error(err)
			return
		}
		vm.Detail = d
	}

	render.Page(c, http.StatusOK, "list.html", vm)
}

func (h *Handler) userDetail(c *gin.Context, cons *console.Console, items []rbslot.User, id, page string, linked bool) (*view.Detail, error) {
	d := view.NewDetail("User "+id, false, nil)
	d.CloseHref = href("/users", "page", page)

	var found *rbslot.User
	for i := range items {
		if items[i].UserID == id {
			found = &items[i]
			break
		}
	}
	if found == nil {
		d.Error = "This user is not on the current page."
		return d, nil
	}

	d.Badge = view.Badge(found.Role)
	d.Fields = []view.Field{
		{Label: "User ID", Value: view.Mono(found.UserID, "-")},
		view.TextField("Mobile", found.MobileNumber),
		view.TextField("Balance", view.INR(found.Balance, 0)),
		view.TextField("Created", dateTime(found.CreatedAt)),
	}

	if !linked {
		d.Links = []view.Link{{
			Label: "View linked accounts",
			Href:  href("/users", "page", page, "open", id, "linked", "1"),
		}}
		return d, nil
	}

	accounts, err := cons.API.ListLinkedAccounts(c.Request.Context(), id)
	switch {
	case errors.Is(err, rbslot.ErrSessionExpired):
		return nil, err
	case err != nil:
		d.Linked = &view.LinkedAccounts{Error: rbslot.Message(err)}
	default:
		d.Linked = &view.LinkedAccounts{Cards: linkedCards(accounts)}
	}
	return d, nil
}
