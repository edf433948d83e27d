package types

import (
	"time"

	"github.com/google/uuid"
)

// NewsArticle is a weather news item, listed newest first.
type NewsArticle struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
	ImageURL    *string   `json:"image,omitempty"`
}

// UpdateNewsParams carries partial updates for an article.
type UpdateNewsParams struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	ImageURL *string `json:"image,omitempty"`
}
