// Package templates holds the console's server-rendered pages.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Parse loads every page and partial.
func Parse() (*template.Template, error) {
	return template.New("console").ParseFS(files, "*.html")
}

func Must() *template.Template {
	return template.Must(Parse())
}
