package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/news-portal/internal/api/dto"
	"github.com/spec-kit/news-portal/internal/auth"
	"github.com/spec-kit/news-portal/internal/domain"
	"github.com/spec-kit/news-portal/internal/repository"
	"github.com/spec-kit/news-portal/internal/service"
	apperrors "github.com/spec-kit/news-portal/pkg/util"
)

// ArticlesHandler manages article endpoints.
type ArticlesHandler struct {
	service *service.ArticleService
}

// NewArticlesHandler constructs handler.
func NewArticlesHandler(articleService *service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{service: articleService}
}

// CreateArticle POST /articles.
func (h *ArticlesHandler) CreateArticle(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token, authorization denied")
	}
	var req dto.CreateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return apperrors.NewValidationError("title and content required", nil)
	}

	article, err := h.service.CreateArticle(c.Context(), principal.Identity(), service.ArticleCreateInput{
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Summary:    req.Summary,
		Content:    req.Content,
		Tags:       req.Tags,
		Publish:    req.Publish,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": articleDetail(article)})
}

// ListArticles GET /articles.
func (h *ArticlesHandler) ListArticles(c *fiber.Ctx) error {
	filter := parseArticleQuery(c)
	articles, err := h.service.ListArticles(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ArticleSummary, 0, len(articles))
	for i := range articles {
		items = append(items, articleSummary(&articles[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetArticle GET /articles/:id.
func (h *ArticlesHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.service.GetArticle(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleDetail(article)})
}

// UpdateArticle PUT /articles/:id.
func (h *ArticlesHandler) UpdateArticle(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token, authorization denied")
	}
	var req dto.UpdateArticleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	article, err := h.service.UpdateArticle(c.Context(), principal.Identity(), c.Params("id"), service.ArticleUpdateInput{
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Summary:    req.Summary,
		Content:    req.Content,
		Tags:       req.Tags,
		Publish:    req.Publish,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": articleDetail(article)})
}

// DeleteArticle DELETE /articles/:id.
func (h *ArticlesHandler) DeleteArticle(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("No token, authorization denied")
	}
	if err := h.service.DeleteArticle(c.Context(), principal.Identity(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseArticleQuery(c *fiber.Ctx) repository.ArticleFilter {
	filter := repository.ArticleFilter{
		Statuses: []domain.ArticleStatus{domain.ArticleStatusPublished},
	}
	if statusStr := c.Query("status"); statusStr != "" {
		filter.Statuses = nil
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ArticleStatus(strings.TrimSpace(part)))
		}
	}
	if category := c.Query("category"); category != "" {
		filter.CategoryID = &category
	}
	if author := c.Query("author"); author != "" {
		filter.AuthorID = &author
	}
	if search := c.Query("q"); search != "" {
		filter.SearchTerm = &search
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func articleSummary(article *domain.Article) dto.ArticleSummary {
	return dto.ArticleSummary{
		ID:          article.ID,
		AuthorID:    article.AuthorID,
		CategoryID:  article.CategoryID,
		Title:       article.Title,
		Slug:        article.Slug,
		Summary:     article.Summary,
		Status:      article.Status,
		ViewCount:   article.ViewCount,
		Tags:        article.Tags,
		CreatedAt:   article.CreatedAt,
		PublishedAt: article.PublishedAt,
	}
}

func articleDetail(article *domain.Article) dto.ArticleDetailResponse {
	return dto.ArticleDetailResponse{
		ArticleSummary: articleSummary(article),
		Content:        article.Content,
		UpdatedAt:      article.UpdatedAt,
	}
}
