// Package router wires handlers, guards and route groups. Route
// metadata is expressed by composition: public routes are registered
// bare, authenticated routes behind the access guard, and role-gated
// routes behind the access guard plus a minimum-role guard.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/JongDeug/blog-backend/internal/auth"
	"github.com/JongDeug/blog-backend/internal/handler"
	"github.com/JongDeug/blog-backend/internal/middleware"
	"github.com/JongDeug/blog-backend/internal/model"
)

// RegisterRoutes registers routes with no collaborators: currently the
// health check only.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. The credential endpoints
// (register, login, refresh) are public but rate limited; logout and
// me require a live access token; revoke additionally requires the
// admin role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, codec *auth.TokenCodec, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	authed := e.Group("/v1", middleware.Access(codec))
	authed.GET("/me", a.Me)
	authed.POST("/auth/logout", a.Logout)

	admin := e.Group("/v1/admin", middleware.Access(codec), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/users/:id/revoke", a.Revoke)
}

// RegisterBlog registers the post, taxonomy and comment endpoints.
// Reads are public (listings behind the short-TTL cache); comment
// writes need an authenticated user; post and category writes need
// the admin role.
func RegisterBlog(e *echo.Echo, p *handler.PostHandler, t *handler.TaxonomyHandler, cm *handler.CommentHandler, codec *auth.TokenCodec, cache echo.MiddlewareFunc) {
	e.GET("/v1/posts", p.List, cache)
	e.GET("/v1/posts/:id", p.Get)
	e.GET("/v1/posts/:id/comments", cm.ListByPost)
	e.GET("/v1/categories", t.ListCategories, cache)
	e.GET("/v1/tags", t.ListTags, cache)

	user := e.Group("/v1", middleware.Access(codec), middleware.RequireRole(model.RoleUser))
	user.POST("/posts/:id/comments", cm.Create)
	user.DELETE("/comments/:id", cm.Delete)

	admin := e.Group("/v1", middleware.Access(codec), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/posts", p.Create)
	admin.PUT("/posts/:id", p.Update)
	admin.DELETE("/posts/:id", p.Delete)
	admin.POST("/categories", t.CreateCategory)
	admin.DELETE("/categories/:id", t.DeleteCategory)
}
