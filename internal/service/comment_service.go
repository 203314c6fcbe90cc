package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/news-portal/internal/auth"
	"github.com/spec-kit/news-portal/internal/domain"
	"github.com/spec-kit/news-portal/internal/events"
	"github.com/spec-kit/news-portal/internal/repository"
	apperrors "github.com/spec-kit/news-portal/pkg/util"
)

const bodyPreviewLen = 120

// CommentService manages comments and fans out creation events.
type CommentService struct {
	comments   repository.CommentRepository
	articles   repository.ArticleRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(comments repository.CommentRepository, articles repository.ArticleRepository, users repository.UserRepository, dispatcher events.Dispatcher) *CommentService {
	return &CommentService{comments: comments, articles: articles, users: users, dispatcher: dispatcher}
}

// CreateComment attaches a comment to an article and publishes the creation
// event. The event fan-out is best-effort and never fails the write.
func (s *CommentService) CreateComment(ctx context.Context, requester domain.Identity, articleID, body string) (*domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}

	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("article", map[string]any{"id": articleID})
		}
		return nil, apperrors.MapError(err)
	}

	comment := &domain.Comment{
		ArticleID: articleID,
		AuthorID:  requester.UserID,
		Body:      body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		authorName := ""
		if author, err := s.users.GetByID(ctx, requester.UserID); err == nil {
			authorName = author.Name
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCommentCreated,
			ArticleID: articleID,
			Actor:     events.Actor{UserID: requester.UserID, Role: requester.Role},
			Timestamp: time.Now(),
			Payload: events.CommentCreatedPayload{
				CommentID:   comment.ID,
				ArticleID:   articleID,
				AuthorID:    comment.AuthorID,
				AuthorName:  authorName,
				BodyPreview: preview(comment.Body),
				CreatedAt:   comment.CreatedAt,
			},
		})
	}

	return comment, nil
}

// ListByArticle returns an article's comments in creation order.
func (s *CommentService) ListByArticle(ctx context.Context, articleID string, limit, offset int) ([]domain.Comment, error) {
	if _, err := s.articles.GetByID(ctx, articleID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("article", map[string]any{"id": articleID})
		}
		return nil, apperrors.MapError(err)
	}
	comments, err := s.comments.ListByArticle(ctx, articleID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// UpdateComment edits a comment body after the ownership check.
func (s *CommentService) UpdateComment(ctx context.Context, requester domain.Identity, id, body string) (*domain.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("comment", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if !auth.CanMutate(requester.UserID, comment.AuthorID, requester.Role) {
		return nil, apperrors.NewForbidden("Not authorized to update this comment")
	}

	comment.Body = body
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// DeleteComment removes a comment after the ownership check.
func (s *CommentService) DeleteComment(ctx context.Context, requester domain.Identity, id string) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("comment", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	if !auth.CanMutate(requester.UserID, comment.AuthorID, requester.Role) {
		return apperrors.NewForbidden("Not authorized to delete this comment")
	}

	return apperrors.MapError(s.comments.Delete(ctx, id))
}

// preview truncates on a rune boundary so the payload stays valid UTF-8.
func preview(body string) string {
	body = strings.TrimSpace(body)
	if len(body) <= bodyPreviewLen {
		return body
	}
	cut := bodyPreviewLen
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut]
}
