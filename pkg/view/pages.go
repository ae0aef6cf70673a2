package view

import "html/template"

type NavItem struct {
	Title  string
	Href   string
	Active bool
}

var navItems = []NavItem{
	{Title: "Dashboard", Href: "/dashboard"},
	{Title: "Users", Href: "/users"},
	{Title: "Transactions", Href: "/transactions"},
	{Title: "Deposits", Href: "/deposits"},
	{Title: "Device Logs", Href: "/devices"},
}

// Nav marks the entry whose href is active.
func Nav(active string) []NavItem {
	out := make([]NavItem, len(navItems))
	for i, it := range navItems {
		it.Active = it.Href == active
		out[i] = it
	}
	return out
}

// Layout is shared by every signed-in page.
type Layout struct {
	Title     string
	Nav       []NavItem
	Flash     *Flash
	CSRFToken string
	Operator  string
	// SessionExpires is empty for opaque tokens.
	SessionExpires string
}

type LoginForm struct {
	MobileNumber string
}

type LoginPage struct {
	Flash     *Flash
	CSRFToken string
	ReturnTo  string
	Form      LoginForm
	Errors    map[string]string
	// Error is the reason the remote API gave for a rejected login.
	Error string
}

type StatCard struct {
	Label string
	Value string
}

type DecisionRow struct {
	At       string
	Resource string
	OrderID  string
	Action   string
	Outcome  template.HTML
	Note     string
	Error    string
}

type DashboardPage struct {
	Layout
	Stats      []StatCard
	StatsError string
	Decisions  []DecisionRow
}

// DepositSearch is the deposit filter form.
type DepositSearch struct {
	UserID  string
	OrderID string
}

type ListPage struct {
	Layout
	Heading  string
	Subtitle string
	Table    TableView
	Error    string
	Search   *DepositSearch
	Detail   *Detail
}

type ErrorPage struct {
	Status     int
	StatusText string
	Message    string
	RequestID  string
	Flash      *Flash
}
