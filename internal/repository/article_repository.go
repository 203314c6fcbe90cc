package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/news-portal/internal/domain"
)

// ArticleFilter captures listing parameters.
type ArticleFilter struct {
	AuthorID   *string
	CategoryID *string
	Statuses   []domain.ArticleStatus
	SearchTerm *string
	Limit      int
	Offset     int
}

// ArticleRepository encapsulates article persistence.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	ListWithFilter(ctx context.Context, filter ArticleFilter) ([]domain.Article, error)
	IncrementViewCount(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository instantiates repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleColumns = `id, author_id, category_id, title, slug, summary, content, status, view_count, tags, created_at, updated_at, published_at`

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO articles (author_id, category_id, title, slug, summary, content, status, tags, published_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, view_count, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.AuthorID,
		article.CategoryID,
		article.Title,
		article.Slug,
		article.Summary,
		article.Content,
		article.Status,
		article.Tags,
		article.PublishedAt,
	).Scan(&article.ID, &article.ViewCount, &article.CreatedAt, &article.UpdatedAt)
}

// Update never touches author_id: authorship is fixed at creation.
func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE articles SET category_id=$1, title=$2, slug=$3, summary=$4, content=$5,
            status=$6, tags=$7, published_at=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		article.CategoryID,
		article.Title,
		article.Slug,
		article.Summary,
		article.Content,
		article.Status,
		article.Tags,
		article.PublishedAt,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	return r.fetchSingle(ctx, `SELECT `+articleColumns+` FROM articles WHERE id=$1`, id)
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return r.fetchSingle(ctx, `SELECT `+articleColumns+` FROM articles WHERE slug=$1`, slug)
}

func (r *articleRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Article, error) {
	var article domain.Article
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&article.ID,
		&article.AuthorID,
		&article.CategoryID,
		&article.Title,
		&article.Slug,
		&article.Summary,
		&article.Content,
		&article.Status,
		&article.ViewCount,
		&article.Tags,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.PublishedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) ListWithFilter(ctx context.Context, filter ArticleFilter) ([]domain.Article, error) {
	base := `SELECT ` + articleColumns + ` FROM articles`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf("author_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(summary) LIKE $%d)", len(args), len(args)))
	}

	query := base + " WHERE " + strings.Join(clauses, " AND ") + " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := []domain.Article{}
	for rows.Next() {
		var article domain.Article
		if err := rows.Scan(
			&article.ID,
			&article.AuthorID,
			&article.CategoryID,
			&article.Title,
			&article.Slug,
			&article.Summary,
			&article.Content,
			&article.Status,
			&article.ViewCount,
			&article.Tags,
			&article.CreatedAt,
			&article.UpdatedAt,
			&article.PublishedAt,
		); err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (r *articleRepository) IncrementViewCount(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE articles SET view_count = view_count + 1 WHERE id=$1`, id)
	return err
}

func (r *articleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles`).Scan(&count)
	return count, err
}
