package templates

import "testing"

func TestParseDefinesEveryPage(t *testing.T) {
	tpl, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, name := range []string{"login.html", "dashboard.html", "list.html", "error.html", "table", "detail", "pager", "flash"} {
		if tpl.Lookup(name) == nil {
			t.Errorf("template %q not defined", name)
		}
	}
}
