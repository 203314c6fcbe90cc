package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/news-portal/internal/domain"
	"github.com/spec-kit/news-portal/internal/repository"
	apperrors "github.com/spec-kit/news-portal/pkg/util"
)

// PortalStats aggregates counts for the admin dashboard.
type PortalStats struct {
	Users     int64
	Articles  int64
	Comments  int64
	TopViewed []repository.ArticleViews
}

// AdminService covers user administration and portal analytics. Route-level
// middleware guarantees the caller is an admin; the self-action guard is
// enforced here because it depends on the target.
type AdminService struct {
	users    repository.UserRepository
	articles repository.ArticleRepository
	comments repository.CommentRepository
	views    repository.ViewCounter
	logger   *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(users repository.UserRepository, articles repository.ArticleRepository, comments repository.CommentRepository, views repository.ViewCounter, logger *zap.Logger) *AdminService {
	return &AdminService{users: users, articles: articles, comments: comments, views: views, logger: logger}
}

// ListUsers returns a page of accounts.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 20
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ChangeUserRole sets another user's role. Admins may not change their own
// role: that path locks the portal out of administration by accident.
func (s *AdminService) ChangeUserRole(ctx context.Context, actorID, targetID string, role domain.UserRole) (*domain.User, error) {
	if role != domain.UserRoleUser && role != domain.UserRoleAdmin {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if actorID == targetID {
		return nil, apperrors.NewSelfActionForbidden("Admins cannot change their own role")
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", map[string]any{"id": targetID})
		}
		return nil, apperrors.MapError(err)
	}

	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeleteUser removes another user's account. Articles and comments cascade
// at the database level. Self-deletion is refused.
func (s *AdminService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.NewSelfActionForbidden("Admins cannot delete their own account")
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", map[string]any{"id": targetID})
		}
		return apperrors.MapError(err)
	}

	return apperrors.MapError(s.users.Delete(ctx, targetID))
}

// Stats gathers entity counts and the view leaderboard.
func (s *AdminService) Stats(ctx context.Context) (*PortalStats, error) {
	stats := &PortalStats{}

	var err error
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.Articles, err = s.articles.Count(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.Comments, err = s.comments.Count(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.views != nil {
		top, err := s.views.Top(ctx, 10)
		if err != nil {
			s.logger.Warn("view leaderboard unavailable", zap.Error(err))
		} else {
			stats.TopViewed = top
		}
	}
	return stats, nil
}
