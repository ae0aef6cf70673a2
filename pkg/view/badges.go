package view

import (
	"html/template"
	"strings"
)

var badgeClasses = map[string]string{
	"completed":  "badge-ok",
	"succeeded":  "badge-ok",
	"pending":    "badge-warn",
	"failed":     "badge-bad",
	"credit":     "badge-ok",
	"debit":      "badge-accent",
	"user":       "badge-muted",
	"admin":      "badge-accent",
	"deposit":    "badge-ok",
	"withdrawal": "badge-accent",
}

// Badge renders status-like labels; unknown labels get the pending style.
func Badge(label string) template.HTML {
	cls, ok := badgeClasses[strings.ToLower(label)]
	if !ok {
		cls = badgeClasses["pending"]
	}
	return template.HTML(`<span class="badge ` + cls + `">` + template.HTMLEscapeString(label) + `</span>`)
}
