package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/news-portal/internal/api/http/handlers"
	"github.com/spec-kit/news-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Articles       *handlers.ArticlesHandler
	Categories     *handlers.CategoriesHandler
	Comments       *handlers.CommentsHandler
	Admin          *handlers.AdminHandler
	Realtime       *handlers.RealtimeHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// auth surface
	app.Post("/register", cfg.Auth.Register)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/refresh-token", cfg.Auth.RefreshToken)
	app.Post("/logout", cfg.Auth.Logout)
	app.Get("/verify-email", cfg.Auth.VerifyEmail)
	app.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	// public reads
	app.Get("/articles", cfg.Articles.ListArticles)
	app.Get("/articles/:id", cfg.Articles.GetArticle)
	app.Get("/articles/:id/comments", cfg.Comments.ListComments)
	app.Get("/categories", cfg.Categories.ListCategories)

	// authenticated mutations; ownership is enforced in the services
	app.Post("/articles", cfg.AuthMiddleware.Handle, cfg.Articles.CreateArticle)
	app.Put("/articles/:id", cfg.AuthMiddleware.Handle, cfg.Articles.UpdateArticle)
	app.Delete("/articles/:id", cfg.AuthMiddleware.Handle, cfg.Articles.DeleteArticle)
	app.Post("/articles/:id/comments", cfg.AuthMiddleware.Handle, cfg.Comments.CreateComment)
	app.Put("/comments/:id", cfg.AuthMiddleware.Handle, cfg.Comments.UpdateComment)
	app.Delete("/comments/:id", cfg.AuthMiddleware.Handle, cfg.Comments.DeleteComment)

	// admin-only
	app.Post("/categories", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Categories.CreateCategory)
	app.Put("/categories/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Categories.UpdateCategory)
	app.Delete("/categories/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Categories.DeleteCategory)

	adminGroup := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	adminGroup.Get("/users", cfg.Admin.ListUsers)
	adminGroup.Put("/users/:id/role", cfg.Admin.ChangeUserRole)
	adminGroup.Delete("/users/:id", cfg.Admin.DeleteUser)
	adminGroup.Get("/stats", cfg.Admin.Stats)

	// realtime
	app.Get("/ws", cfg.Realtime.Upgrade, cfg.Realtime.Serve())
}
