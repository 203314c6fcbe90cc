package domain

import "time"

// ArticleStatus enumerates publication states.
type ArticleStatus string

const (
	ArticleStatusDraft     ArticleStatus = "DRAFT"
	ArticleStatusPublished ArticleStatus = "PUBLISHED"
)

// Article is the aggregate for portal stories. AuthorID is fixed at creation
// and never reassigned by updates.
type Article struct {
	ID          string
	AuthorID    string
	CategoryID  *string
	Title       string
	Slug        string
	Summary     string
	Content     string
	Status      ArticleStatus
	ViewCount   int64
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PublishedAt *time.Time
}
