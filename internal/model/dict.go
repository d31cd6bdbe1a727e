package model

import "time"

type DictType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TypeKey   string    `json:"type_key"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DictItem struct {
	ID        string    `json:"id"`
	TypeID    string    `json:"type_id"`
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	Sort      int       `json:"sort"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
