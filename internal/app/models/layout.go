package models

import "github.com/a-h/templ"

type NavItem struct {
	Name string
	URL  string
	Icon string
}

type Navigation struct {
	Items []NavItem
}

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Text string
	Type string
}

type LayoutTempl struct {
	Title     string
	Identity  *Identity
	Nav       Navigation
	ActiveNav string
	// RoleLink is the role-specific entry shown next to the main links, if any.
	RoleLink *NavItem
	Flashes  []Flash
	Content  templ.Component
}

var MainNav = Navigation{
	Items: []NavItem{
		{Name: "Home", URL: "/"},
		{Name: "Weather", URL: "/weather"},
	},
}

var roleNav = map[Role]NavItem{
	RoleFarmer: {Name: "Farmer Dashboard", URL: "/farmer-dashboard"},
	RoleBuyer:  {Name: "Marketplace", URL: "/marketplace"},
	RoleWorker: {Name: "Work Orders", URL: "/work-orders"},
}

// RoleNavItem returns the navbar entry reserved for a role. Admins get the
// Admin Panel entry in the user menu instead.
func RoleNavItem(r Role) (NavItem, bool) {
	item, ok := roleNav[r]
	return item, ok
}
