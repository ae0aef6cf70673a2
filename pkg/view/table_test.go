package view

import (
	"fmt"
	"html/template"
	"strings"
	"testing"
)

type row struct {
	ID     string  `json:"orderId"`
	Amount float64 `json:"amount"`
	Note   *string `json:"note"`
	Plain  string
}

func TestTableFallsBackToFields(t *testing.T) {
	tbl := Table[row]{
		Columns: []Column[row]{
			{Key: "orderId", Header: "Order"},
			{Key: "Plain", Header: "Plain"},
			{Key: "note", Header: "Note"},
			{Key: "missing", Header: "Missing"},
			{Key: "amount", Header: "Amount", Render: func(r row) template.HTML {
				return Text(fmt.Sprintf("%.1f", r.Amount))
			}},
		},
	}
	v := tbl.Build([]row{{ID: "TX<1>", Amount: 2, Plain: "p"}}, false, Pager{})

	if len(v.Headers) != 5 || len(v.Rows) != 1 {
		t.Fatalf("headers=%d rows=%d", len(v.Headers), len(v.Rows))
	}
	cells := v.Rows[0].Cells
	want := []template.HTML{"TX&lt;1&gt;", "p", "", "", "2.0"}
	for i, w := range want {
		if cells[i].HTML != w {
			t.Errorf("cell %d = %q, want %q", i, cells[i].HTML, w)
		}
	}
	if v.Rows[0].Href != "" {
		t.Fatal("rows must be inert without RowHref")
	}
}

func TestTableRowHrefAndCards(t *testing.T) {
	tbl := Table[row]{
		Columns: []Column[row]{{Key: "orderId", Header: "Order"}},
		RowHref: func(r row) string { return "/x?open=" + r.ID },
		Cards: CardList[row]{Card: func(r row) Card {
			return Card{Title: r.ID}
		}},
	}
	v := tbl.Build([]row{{ID: "a"}, {ID: "b"}}, false, Pager{})
	if v.Rows[1].Href != "/x?open=b" {
		t.Fatalf("href = %q", v.Rows[1].Href)
	}
	if len(v.Cards) != 2 || v.Cards[0].Href != "/x?open=a" || v.Cards[0].Title != "a" {
		t.Fatalf("cards = %+v", v.Cards)
	}
}

func TestTableLoadingAndEmpty(t *testing.T) {
	tbl := Table[row]{Columns: []Column[row]{{Key: "orderId", Header: "Order"}}}

	loading := tbl.Build([]row{{ID: "a"}}, true, Pager{})
	if len(loading.Rows) != 0 || loading.Empty() {
		t.Fatalf("loading view: rows=%d empty=%v", len(loading.Rows), loading.Empty())
	}

	empty := tbl.Build(nil, false, Pager{})
	if !empty.Empty() || empty.EmptyMessage != "No data found" {
		t.Fatalf("empty view: %+v", empty)
	}

	tbl.EmptyMessage = "No deposits"
	if got := tbl.Build(nil, false, Pager{}).EmptyMessage; got != "No deposits" {
		t.Fatalf("custom empty message = %q", got)
	}
}

func TestFieldStringMapsAndNil(t *testing.T) {
	if got := FieldString(map[string]any{"k": 3}, "k"); got != "3" {
		t.Fatalf("map = %q", got)
	}
	var p *row
	if got := FieldString(p, "orderId"); got != "" {
		t.Fatalf("nil ptr = %q", got)
	}
	s := "n"
	if got := FieldString(&row{Note: &s}, "note"); got != "n" {
		t.Fatalf("ptr field = %q", got)
	}
}

func TestPager(t *testing.T) {
	href := func(p int) string { return fmt.Sprintf("?page=%d", p) }

	single := NewPager(1, 1, href)
	if single.Show() {
		t.Fatal("single page must hide the pager")
	}

	first := NewPager(1, 3, href)
	if !first.Show() || !first.PrevDisabled || first.NextDisabled || first.NextHref != "?page=2" {
		t.Fatalf("first = %+v", first)
	}

	last := NewPager(3, 3, href)
	if last.PrevDisabled || !last.NextDisabled || last.PrevHref != "?page=2" || last.NextHref != "" {
		t.Fatalf("last = %+v", last)
	}
}

func TestBadge(t *testing.T) {
	if got := string(Badge("completed")); !strings.Contains(got, "badge-ok") {
		t.Fatalf("completed = %s", got)
	}
	if got := string(Badge("processing")); !strings.Contains(got, "badge-warn") {
		t.Fatalf("unknown = %s", got)
	}
	if got := string(Badge("<b>")); strings.Contains(got, "<b>") {
		t.Fatalf("label not escaped: %s", got)
	}
}

func TestNewDetailActionsOnlyWhenPending(t *testing.T) {
	a := &DetailActions{ApproveURL: "/a"}
	if d := NewDetail("x", false, a); d.Actions != nil {
		t.Fatal("actions on a settled record")
	}
	if d := NewDetail("x", true, a); d.Actions != a {
		t.Fatal("actions missing on a pending record")
	}
	if d := NewDetail("x", true, nil); d.Actions != nil {
		t.Fatal("actions appeared from nowhere")
	}
}

func TestFlashClass(t *testing.T) {
	cases := map[FlashKind]string{
		FlashSuccess: "flash-ok",
		FlashError:   "flash-bad",
		FlashWarning: "flash-warn",
		FlashInfo:    "flash-info",
		"":           "flash-info",
	}
	for kind, want := range cases {
		if got := (Flash{Kind: kind}).Class(); got != want {
			t.Errorf("%q: got %q, want %q", kind, got, want)
		}
	}
}
