package domain

import "time"

// Comment is a reader response attached to an article. AuthorID is fixed at
// creation and never reassigned by updates.
type Comment struct {
	ID        string
	ArticleID string
	AuthorID  string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
