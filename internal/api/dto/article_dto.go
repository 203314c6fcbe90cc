package dto

import (
	"time"

	"github.com/spec-kit/news-portal/internal/domain"
)

// CreateArticleRequest payload.
type CreateArticleRequest struct {
	CategoryID *string  `json:"category_id,omitempty"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags,omitempty"`
	Publish    bool     `json:"publish"`
}

// UpdateArticleRequest payload; nil fields are left unchanged.
type UpdateArticleRequest struct {
	CategoryID *string  `json:"category_id,omitempty"`
	Title      *string  `json:"title,omitempty"`
	Summary    *string  `json:"summary,omitempty"`
	Content    *string  `json:"content,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Publish    *bool    `json:"publish,omitempty"`
}

// ArticleSummary is the list item shape.
type ArticleSummary struct {
	ID          string               `json:"id"`
	AuthorID    string               `json:"author_id"`
	CategoryID  *string              `json:"category_id,omitempty"`
	Title       string               `json:"title"`
	Slug        string               `json:"slug"`
	Summary     string               `json:"summary"`
	Status      domain.ArticleStatus `json:"status"`
	ViewCount   int64                `json:"view_count"`
	Tags        []string             `json:"tags,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	PublishedAt *time.Time           `json:"published_at,omitempty"`
}

// ArticleDetailResponse is the full article shape.
type ArticleDetailResponse struct {
	ArticleSummary
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}
