// Package adminnav holds the admin console's side menu and decides which entry is highlighted.
package adminnav

import "strings"

// Item is one menu entry. Icon is a CSS class name for the layout to render.
type Item struct {
	Title string
	Path  string
	Icon  string
}

// Menu is an ordered list of items under Root. Root is the overview page and only matches exactly.
type Menu struct {
	Root  string
	Items []Item
}

// Entry is an item with its highlight state for one request
type Entry struct {
	Item
	Active bool
}

func DefaultMenu() Menu {
	return Menu{
		Root: "/admin",
		Items: []Item{
			{Title: "Overview", Path: "/admin", Icon: "icon-dashboard"},
			{Title: "Users", Path: "/admin/users", Icon: "icon-users"},
			{Title: "Articles", Path: "/admin/articles", Icon: "icon-article"},
			{Title: "Categories", Path: "/admin/categories", Icon: "icon-folder"},
		},
	}
}

// IsActive reports whether item should be highlighted while current is shown.
// Items other than Root also match their sub-pages on a segment boundary,
// so /admin/users matches /admin/users/42 but not /admin/usersx.
func (m Menu) IsActive(item Item, current string) bool {
	current = trimSlash(current)
	path := trimSlash(item.Path)

	if current == path {
		return true
	}
	if path == trimSlash(m.Root) {
		return false
	}
	return strings.HasPrefix(current, path+"/")
}

// Entries returns the menu in order with the highlight state for current
func (m Menu) Entries(current string) []Entry {
	entries := make([]Entry, 0, len(m.Items))
	for _, item := range m.Items {
		entries = append(entries, Entry{Item: item, Active: m.IsActive(item, current)})
	}
	return entries
}

// Active returns the highlighted item, if any
func (m Menu) Active(current string) (Item, bool) {
	for _, item := range m.Items {
		if m.IsActive(item, current) {
			return item, true
		}
	}
	return Item{}, false
}

func trimSlash(p string) string {
	if len(p) > 1 {
		return strings.TrimRight(p, "/")
	}
	return p
}
