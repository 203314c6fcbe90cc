package dto

import "github.com/spec-kit/news-portal/internal/domain"

// ChangeRoleRequest payload.
type ChangeRoleRequest struct {
	Role domain.UserRole `json:"role"`
}

// ArticleViewsResponse is one leaderboard entry.
type ArticleViewsResponse struct {
	ArticleID string `json:"article_id"`
	Views     int64  `json:"views"`
}

// StatsResponse aggregates dashboard counters.
type StatsResponse struct {
	Users     int64                  `json:"users"`
	Articles  int64                  `json:"articles"`
	Comments  int64                  `json:"comments"`
	TopViewed []ArticleViewsResponse `json:"top_viewed"`
}
