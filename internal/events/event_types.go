package events

import (
	"time"

	"github.com/spec-kit/news-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCommentCreated   EventType = "comment_created"
	EventArticlePublished EventType = "article_published"
	EventUserRegistered   EventType = "user_registered"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string          `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ArticleID string      `json:"article_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CommentCreatedPayload is the comment summary fanned out to connected clients.
type CommentCreatedPayload struct {
	CommentID   string    `json:"comment_id"`
	ArticleID   string    `json:"article_id"`
	AuthorID    string    `json:"author_id"`
	AuthorName  string    `json:"author_name,omitempty"`
	BodyPreview string    `json:"body_preview"`
	CreatedAt   time.Time `json:"created_at"`
}

// ArticlePublishedPayload payload.
type ArticlePublishedPayload struct {
	ArticleID string  `json:"article_id"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	Category  *string `json:"category_id,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
