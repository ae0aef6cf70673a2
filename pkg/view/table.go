package view

import (
	"fmt"
	"html/template"
	"reflect"
	"strings"
)

// Column describes one table column. Render is optional; without it the
// item's field whose json tag or Go name matches Key is printed.
type Column[T any] struct {
	Key    string
	Header string
	Class  string
	Render func(T) template.HTML
}

// Card is one item of the mobile card list.
type Card struct {
	Title    string
	Subtitle string
	Badge    template.HTML
	Fields   []Field
	Href     string
}

type CardList[T any] struct {
	Card func(T) Card
}

func (l CardList[T]) Build(items []T, href func(T) string) []Card {
	if l.Card == nil {
		return nil
	}
	out := make([]Card, 0, len(items))
	for _, it := range items {
		c := l.Card(it)
		if href != nil && c.Href == "" {
			c.Href = href(it)
		}
		out = append(out, c)
	}
	return out
}

// Table renders any item type through its column list.
type Table[T any] struct {
	Columns      []Column[T]
	EmptyMessage string
	// RowHref opens the detail view; nil leaves rows inert.
	RowHref func(T) string
	Cards   CardList[T]
}

type Header struct {
	Label string
	Class string
}

type Cell struct {
	HTML  template.HTML
	Class string
}

type Row struct {
	Href  string
	Cells []Cell
}

// TableView is what templates consume.
type TableView struct {
	Headers      []Header
	Rows         []Row
	Cards        []Card
	Loading      bool
	EmptyMessage string
	Pager        Pager
}

func (v TableView) Empty() bool { return !v.Loading && len(v.Rows) == 0 }

func (t Table[T]) Build(items []T, loading bool, pager Pager) TableView {
	v := TableView{
		Loading:      loading,
		EmptyMessage: t.EmptyMessage,
		Pager:        pager,
	}
	if v.EmptyMessage == "" {
		v.EmptyMessage = "No data found"
	}
	for _, c := range t.Columns {
		v.Headers = append(v.Headers, Header{Label: c.Header, Class: c.Class})
	}
	if loading {
		return v
	}

	for _, it := range items {
		r := Row{}
		if t.RowHref != nil {
			r.Href = t.RowHref(it)
		}
		for _, c := range t.Columns {
			r.Cells = append(r.Cells, Cell{HTML: cellHTML(c, it), Class: c.Class})
		}
		v.Rows = append(v.Rows, r)
	}
	v.Cards = t.Cards.Build(items, t.RowHref)
	return v
}

func cellHTML[T any](c Column[T], it T) template.HTML {
	if c.Render != nil {
		return c.Render(it)
	}
	return Text(FieldString(it, c.Key))
}

// FieldString stringifies the field of item named key. Nil and missing
// fields print as the empty string.
func FieldString(item any, key string) string {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return ""
		}
		mv := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if !mv.IsValid() {
			return ""
		}
		return stringify(mv)
	case reflect.Struct:
	default:
		return ""
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == key || f.Name == key {
			return stringify(v.Field(i))
		}
	}
	return ""
}

func stringify(v reflect.Value) string {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	if !v.CanInterface() {
		return ""
	}
	return fmt.Sprint(v.Interface())
}

// Text escapes s for a cell.
func Text(s string) template.HTML {
	return template.HTML(template.HTMLEscapeString(s))
}

// Mono renders s in a monospace span; empty values become fallback.
func Mono(s, fallback string) template.HTML {
	if s == "" {
		s = fallback
	}
	return template.HTML(`<span class="mono">` + template.HTMLEscapeString(s) + `</span>`)
}

// Pager drives the previous/next footer.
type Pager struct {
	Page         int
	TotalPages   int
	PrevHref     string
	NextHref     string
	PrevDisabled bool
	NextDisabled bool
}

// Show is false for single-page results.
func (p Pager) Show() bool { return p.TotalPages > 1 }

func NewPager(page, totalPages int, href func(page int) string) Pager {
	if page < 1 {
		page = 1
	}
	p := Pager{
		Page:         page,
		TotalPages:   totalPages,
		PrevDisabled: page <= 1,
		NextDisabled: page >= totalPages,
	}
	if !p.PrevDisabled {
		p.PrevHref = href(page - 1)
	}
	if !p.NextDisabled {
		p.NextHref = href(page + 1)
	}
	return p
}
