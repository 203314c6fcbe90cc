package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/news-portal/internal/auth"
	"github.com/spec-kit/news-portal/internal/domain"
	"github.com/spec-kit/news-portal/internal/events"
	"github.com/spec-kit/news-portal/internal/repository"
	apperrors "github.com/spec-kit/news-portal/pkg/util"
)

// ArticleCreateInput captures fields for a new article.
type ArticleCreateInput struct {
	CategoryID *string
	Title      string
	Summary    string
	Content    string
	Tags       []string
	Publish    bool
}

// ArticleUpdateInput captures mutable fields. Nil means "leave unchanged".
type ArticleUpdateInput struct {
	CategoryID *string
	Title      *string
	Summary    *string
	Content    *string
	Tags       []string
	Publish    *bool
}

// ArticleService manages article lifecycle and enforces the ownership policy
// on every mutation.
type ArticleService struct {
	articles   repository.ArticleRepository
	views      repository.ViewCounter
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewArticleService constructs the service.
func NewArticleService(articles repository.ArticleRepository, views repository.ViewCounter, dispatcher events.Dispatcher, logger *zap.Logger) *ArticleService {
	return &ArticleService{articles: articles, views: views, dispatcher: dispatcher, logger: logger}
}

// CreateArticle creates an article authored by the requester. Authorship is
// set here and never changes afterwards.
func (s *ArticleService) CreateArticle(ctx context.Context, requester domain.Identity, input ArticleCreateInput) (*domain.Article, error) {
	article := &domain.Article{
		AuthorID:   requester.UserID,
		CategoryID: input.CategoryID,
		Title:      input.Title,
		Slug:       Slugify(input.Title),
		Summary:    input.Summary,
		Content:    input.Content,
		Status:     domain.ArticleStatusDraft,
		Tags:       input.Tags,
	}
	if input.Publish {
		now := time.Now()
		article.Status = domain.ArticleStatusPublished
		article.PublishedAt = &now
	}

	if _, err := s.articles.GetBySlug(ctx, article.Slug); err == nil {
		article.Slug = article.Slug + "-" + uuid.NewString()[:8]
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}

	if article.Status == domain.ArticleStatusPublished {
		s.publishArticleEvent(ctx, requester, article)
	}
	return article, nil
}

// GetArticle fetches an article and records the view.
func (s *ArticleService) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("article", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if err := s.articles.IncrementViewCount(ctx, id); err != nil {
		s.logger.Warn("increment view count", zap.Error(err))
	}
	if s.views != nil {
		if err := s.views.Increment(ctx, id); err != nil {
			s.logger.Warn("increment view leaderboard", zap.Error(err))
		}
	}
	return article, nil
}

// ListArticles returns articles matching the filter.
func (s *ArticleService) ListArticles(ctx context.Context, filter repository.ArticleFilter) ([]domain.Article, error) {
	articles, err := s.articles.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return articles, nil
}

// UpdateArticle applies changes after the ownership check. Existence is
// resolved first: a missing article is a 404 regardless of who asks.
func (s *ArticleService) UpdateArticle(ctx context.Context, requester domain.Identity, id string, input ArticleUpdateInput) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("article", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if !auth.CanMutate(requester.UserID, article.AuthorID, requester.Role) {
		return nil, apperrors.NewForbidden("Not authorized to update this article")
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		article.Title = *input.Title
		slug := Slugify(*input.Title)
		if existing, err := s.articles.GetBySlug(ctx, slug); err == nil && existing.ID != article.ID {
			slug = slug + "-" + uuid.NewString()[:8]
		} else if err != nil && err != pgx.ErrNoRows {
			return nil, apperrors.MapError(err)
		}
		article.Slug = slug
	}
	if input.Summary != nil {
		article.Summary = *input.Summary
	}
	if input.Content != nil {
		article.Content = *input.Content
	}
	if input.CategoryID != nil {
		article.CategoryID = input.CategoryID
	}
	if input.Tags != nil {
		article.Tags = input.Tags
	}

	wasPublished := article.Status == domain.ArticleStatusPublished
	if input.Publish != nil {
		if *input.Publish && !wasPublished {
			now := time.Now()
			article.Status = domain.ArticleStatusPublished
			article.PublishedAt = &now
		} else if !*input.Publish {
			article.Status = domain.ArticleStatusDraft
			article.PublishedAt = nil
		}
	}

	if err := s.articles.Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}

	if !wasPublished && article.Status == domain.ArticleStatusPublished {
		s.publishArticleEvent(ctx, requester, article)
	}
	return article, nil
}

// DeleteArticle removes an article after the ownership check.
func (s *ArticleService) DeleteArticle(ctx context.Context, requester domain.Identity, id string) error {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("article", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}

	if !auth.CanMutate(requester.UserID, article.AuthorID, requester.Role) {
		return apperrors.NewForbidden("Not authorized to delete this article")
	}

	return apperrors.MapError(s.articles.Delete(ctx, id))
}

func (s *ArticleService) publishArticleEvent(ctx context.Context, actor domain.Identity, article *domain.Article) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventArticlePublished,
		ArticleID: article.ID,
		Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload: events.ArticlePublishedPayload{
			ArticleID: article.ID,
			Title:     article.Title,
			Slug:      article.Slug,
			Category:  article.CategoryID,
		},
	})
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL-safe slug.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
