package model

import "time"

const (
	NoticeStatusDraft     = "draft"
	NoticeStatusPublished = "published"
)

type Notice struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Type        string     `json:"type,omitempty"`
	Status      string     `json:"status"`
	Platform    string     `json:"platform"`
	Sort        int        `json:"sort"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
