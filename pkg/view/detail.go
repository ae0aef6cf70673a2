package view

import "html/template"

type Field struct {
	Label string
	Value template.HTML
}

func TextField(label, value string) Field {
	return Field{Label: label, Value: Text(value)}
}

type Section struct {
	Title  string
	Fields []Field
}

// DetailActions are the Approve/Reject controls of an actionable record.
type DetailActions struct {
	ApproveURL string
	RejectURL  string
	CSRFToken  string
	// WithNote adds the operator note input (deposits).
	WithNote    bool
	NoteDefault string
	Disabled    bool
}

type Detail struct {
	Title     string
	Badge     template.HTML
	Fields    []Field
	Sections  []Section
	Actions   *DetailActions
	Error     string
	CloseHref string
	// Extra links, e.g. "View linked accounts".
	Links []Link
	// Linked holds the linked accounts once they were asked for.
	Linked *LinkedAccounts
}

type Link struct {
	Label string
	Href  string
}

type LinkedAccounts struct {
	Error string
	Cards []Card
}

// NewDetail only keeps actions for pending records.
func NewDetail(title string, pending bool, actions *DetailActions) *Detail {
	d := &Detail{Title: title}
	if pending && actions != nil {
		d.Actions = actions
	}
	return d
}
