package model

import "time"

// Route types. A directory groups menus, a menu maps to a page, a button is
// a fine-grained permission inside a page.
const (
	RouteTypeDirectory = "directory"
	RouteTypeMenu      = "menu"
	RouteTypeButton    = "button"
)

type Route struct {
	ID        string         `json:"id"`
	ParentID  string         `json:"parent_id,omitempty"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Path      string         `json:"path,omitempty"`
	Icon      string         `json:"icon,omitempty"`
	Component string         `json:"component,omitempty"`
	Redirect  string         `json:"redirect,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
	Sort      int            `json:"sort"`
	Platform  string         `json:"platform"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	Children []*Route `json:"children,omitempty"`
}
