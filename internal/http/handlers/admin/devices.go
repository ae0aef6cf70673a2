package admin

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgjhbj-wq/admin-nexus/internal/http/middleware"
	"github.com/devgjhbj-wq/admin-nexus/internal/http/render"
	"github.com/devgjhbj-wq/admin-nexus/internal/listctl"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/pkg/view"
)

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func devicesTable(rowHref func(rbslot.DeviceLog) string) view.Table[rbslot.DeviceLog] {
	return view.Table[rbslot.DeviceLog]{
		Columns: []view.Column[rbslot.DeviceLog]{
			{Key: "userId", Header: "User ID", Render: func(d rbslot.DeviceLog) template.HTML { return view.Mono(d.UserID, "-") }},
			{Key: "deviceId", Header: "Device ID", Render: func(d rbslot.DeviceLog) template.HTML { return view.Mono(d.DeviceID, "-") }},
			{Key: "ip", Header: "IP Address", Class: "mono"},
			{Key: "adId", Header: "Ad ID", Render: func(d rbslot.DeviceLog) template.HTML { return view.Mono(d.AdID, "-") }},
			{Key: "ua", Header: "User Agent", Render: func(d rbslot.DeviceLog) template.HTML { return view.Text(shorten(d.UA, 48)) }},
			{Key: "createdAt", Header: "Date", Render: func(d rbslot.DeviceLog) template.HTML { return view.Text(dateTime(d.CreatedAt)) }},
		},
		EmptyMessage: "No device logs found",
		RowHref:      rowHref,
		Cards: view.CardList[rbslot.DeviceLog]{Card: func(d rbslot.DeviceLog) view.Card {
			return view.Card{
				Title:    d.DeviceID,
				Subtitle: d.UserID,
				Fields: []view.Field{
					view.TextField("IP", d.IP),
					view.TextField("Date", dateTime(d.CreatedAt)),
				},
			}
		}},
	}
}

func (h *Handler) Devices(c *gin.Context) {
	cons := middleware.CurrentConsole(c)
	list := cons.Devices(listctl.Query[listctl.NoFilter]{Page: parsePage(c.Query("page"))})

	st, err := awaitList(c, h, list.Await)
	if err != nil {
		_ = c.Error(err)
		return
	}

	page := pageParam(st.Page)
	tbl := devicesTable(func(d rbslot.DeviceLog) string {
		return href("/devices", "page", page, "open", d.ID)
	})
	vm := view.ListPage{
		Layout:   h.layout(c, "Device Logs", "/devices"),
		Heading:  "Device Logs",
		Subtitle: fmt.Sprintf("%d device records", st.TotalRecords),
		Table: tbl.Build(st.Items, st.Loading, view.NewPager(st.Page, st.TotalPages, func(p int) string {
			return href("/devices", "page", pageParam(p))
		})),
		Error: listError(st.Err),
	}

	if id := c.Query("open"); id != "" && !st.Loading {
		d := view.NewDetail("Device log "+id, false, nil)
		d.CloseHref = href("/devices", "page", page)
		d.Error = "This record is not on the current page."
		for _, it := range st.Items {
			if it.ID != id {
				continue
			}
			d.Error = ""
			d.Fields = []view.Field{
				{Label: "User ID", Value: view.Mono(it.UserID, "-")},
				{Label: "Device ID", Value: view.Mono(it.DeviceID, "-")},
				{Label: "IP Address", Value: view.Mono(it.IP, "-")},
				{Label: "Ad ID", Value: view.Mono(it.AdID, "-")},
				view.TextField("User Agent", it.UA),
				view.TextField("Date", dateTime(it.CreatedAt)),
			}
			break
		}
		vm.Detail = d
	}

	render.Page(c, http.StatusOK, "list.html", vm)
}
