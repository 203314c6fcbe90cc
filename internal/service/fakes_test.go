package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/news-portal/internal/domain"
	"github.com/spec-kit/news-portal/internal/events"
	"github.com/spec-kit/news-portal/internal/repository"
)

// In-memory repository doubles. They mimic the Postgres layer's contract,
// including pgx.ErrNoRows for missing rows, so services see the same error
// surface as in production.

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	clone.UpdatedAt = time.Now()
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := []domain.User{}
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *r.users[id])
	}
	return out, nil
}

func (r *fakeUserRepo) Count(context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type fakeArticleRepo struct {
	articles map[string]*domain.Article
	nextID   int
	views    map[string]int
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: map[string]*domain.Article{}, views: map[string]int{}}
}

func (r *fakeArticleRepo) Create(_ context.Context, article *domain.Article) error {
	r.nextID++
	article.ID = fmt.Sprintf("article-%d", r.nextID)
	article.CreatedAt = time.Now()
	article.UpdatedAt = article.CreatedAt
	clone := *article
	r.articles[article.ID] = &clone
	return nil
}

func (r *fakeArticleRepo) Update(_ context.Context, article *domain.Article) error {
	if _, ok := r.articles[article.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *article
	clone.UpdatedAt = time.Now()
	r.articles[article.ID] = &clone
	return nil
}

func (r *fakeArticleRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.articles, id)
	return nil
}

func (r *fakeArticleRepo) GetByID(_ context.Context, id string) (*domain.Article, error) {
	article, ok := r.articles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *article
	return &clone, nil
}

func (r *fakeArticleRepo) GetBySlug(_ context.Context, slug string) (*domain.Article, error) {
	for _, article := range r.articles {
		if article.Slug == slug {
			clone := *article
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeArticleRepo) ListWithFilter(_ context.Context, filter repository.ArticleFilter) ([]domain.Article, error) {
	out := []domain.Article{}
	for _, article := range r.articles {
		if filter.AuthorID != nil && article.AuthorID != *filter.AuthorID {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, status := range filter.Statuses {
				if article.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if filter.SearchTerm != nil && !strings.Contains(strings.ToLower(article.Title), strings.ToLower(*filter.SearchTerm)) {
			continue
		}
		out = append(out, *article)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeArticleRepo) IncrementViewCount(_ context.Context, id string) error {
	if _, ok := r.articles[id]; !ok {
		return pgx.ErrNoRows
	}
	r.views[id]++
	return nil
}

func (r *fakeArticleRepo) Count(context.Context) (int64, error) {
	return int64(len(r.articles)), nil
}

type fakeCommentRepo struct {
	comments map[string]*domain.Comment
	nextID   int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*domain.Comment{}}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.nextID++
	comment.ID = fmt.Sprintf("comment-%d", r.nextID)
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *fakeCommentRepo) Update(_ context.Context, comment *domain.Comment) error {
	stored, ok := r.comments[comment.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	// body is the only mutable column
	stored.Body = comment.Body
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *comment
	return &clone, nil
}

func (r *fakeCommentRepo) ListByArticle(_ context.Context, articleID string, limit, offset int) ([]domain.Comment, error) {
	out := []domain.Comment{}
	for _, comment := range r.comments {
		if comment.ArticleID == articleID {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCommentRepo) Count(context.Context) (int64, error) {
	return int64(len(r.comments)), nil
}

type fakeRevocationStore struct {
	revoked map[string]bool
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: map[string]bool{}}
}

func (s *fakeRevocationStore) Revoke(_ context.Context, jti string, _ time.Duration) error {
	s.revoked[jti] = true
	return nil
}

func (s *fakeRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], nil
}

type fakeViewCounter struct {
	counts map[string]float64
}

func newFakeViewCounter() *fakeViewCounter {
	return &fakeViewCounter{counts: map[string]float64{}}
}

func (v *fakeViewCounter) Increment(_ context.Context, articleID string) error {
	v.counts[articleID]++
	return nil
}

func (v *fakeViewCounter) Top(_ context.Context, n int64) ([]repository.ArticleViews, error) {
	out := make([]repository.ArticleViews, 0, len(v.counts))
	for id, views := range v.counts {
		out = append(out, repository.ArticleViews{ArticleID: id, Views: int64(views)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	if int64(len(out)) > n {
		out = out[:n]
	}
	return out, nil
}

// captureDispatcher records published events for assertions.
type captureDispatcher struct {
	published []events.Event
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *captureDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *captureDispatcher) ofType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, e := range d.published {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
