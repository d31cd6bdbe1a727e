package model

import "time"

type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RoleKey     string    `json:"role_key"`
	Description string    `json:"description,omitempty"`
	Platform    string    `json:"platform"`
	RouteIDs    []string  `json:"route_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
