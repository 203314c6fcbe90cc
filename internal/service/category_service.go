package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/news-portal/internal/domain"
	"github.com/spec-kit/news-portal/internal/repository"
	apperrors "github.com/spec-kit/news-portal/pkg/util"
)

// CategoryService manages categories. Mutations are admin-only, enforced at
// the route level; listing is public.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CreateCategory creates a category with a unique slug.
func (s *CategoryService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name required", nil)
	}

	slug := Slugify(name)
	if _, err := s.categories.GetBySlug(ctx, slug); err == nil {
		return nil, apperrors.NewConflict("category already exists", map[string]any{"slug": slug})
	} else if err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	category := &domain.Category{Name: name, Slug: slug, Description: description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// UpdateCategory modifies category metadata.
func (s *CategoryService) UpdateCategory(ctx context.Context, id, name, description string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if strings.TrimSpace(name) != "" {
		category.Name = strings.TrimSpace(name)
		category.Slug = Slugify(category.Name)
	}
	if description != "" {
		category.Description = description
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// DeleteCategory removes a category; its articles fall back to uncategorized.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("category", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
