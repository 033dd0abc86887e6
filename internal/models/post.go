package models

import "time"

const (
	StatusPublished = "published"
	StatusDraft     = "draft"
	StatusPrivate   = "private"
)

type Post struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	PostImage   string    `json:"postImage"` // data-URI or URL
	CreateDate  time.Time `json:"createDate"`
	UpdateDate  time.Time `json:"updateDate"`
}

// ValidStatus reports whether status is one of the three post states.
func ValidStatus(status string) bool {
	switch status {
	case StatusPublished, StatusDraft, StatusPrivate:
		return true
	}
	return false
}
