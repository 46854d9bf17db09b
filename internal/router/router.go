package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"pizzeria/internal/auth"
	"pizzeria/internal/handler"
	"pizzeria/internal/middleware"
	"pizzeria/internal/repository"
)

// RegisterRoutes registers routes that do not require
// authentication. Currently that is only the health check used by
// load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account and token endpoints.
// Unauthenticated operations live under /v1/auth; everything on the
// protected group runs APIKeyAuth, JWTAuth and Identity in order,
// so either an X-API-Key header or a Bearer access token
// authenticates a request and deactivated accounts are rejected.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, signer *auth.Signer,
	keys *repository.APIKeyRepo, users *repository.UserRepo, sessions *repository.SessionRepo) {

	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout takes the refresh token in the body, not a Bearer
	// header, so it stays outside the protected group.
	g.POST("/logout", a.Logout)

	p := e.Group("/v1")
	p.Use(middleware.APIKeyAuth(keys))
	p.Use(middleware.JWTAuth(signer))
	p.Use(middleware.Identity(users, sessions))

	p.GET("/me", a.Me)
	p.DELETE("/me", a.Deactivate)
	p.GET("/me/activity", a.MyActivity)

	p.POST("/api-keys", a.CreateAPIKey)
	p.GET("/api-keys", a.ListAPIKeys)
	p.DELETE("/api-keys/:id", a.RevokeAPIKey)

	p.GET("/sessions", a.ListSessions)
	p.DELETE("/sessions/:id", a.RevokeSession)

	p.GET("/notifications", a.ListNotifications)
	p.POST("/notifications/:id/read", a.MarkNotificationRead)
}

// RegisterCatalog registers the pizza catalog. Reads are public so
// guests can browse the menu; cacheMW (when non-nil) fronts them
// with the Redis response cache. Mutations require authentication.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, signer *auth.Signer,
	keys *repository.APIKeyRepo, users *repository.UserRepo, sessions *repository.SessionRepo,
	cacheMW echo.MiddlewareFunc) {

	pub := e.Group("/v1")
	if cacheMW != nil {
		pub.Use(cacheMW)
	}

	pub.GET("/pizzas", h.ListPizzas)
	pub.GET("/pizzas/:id", h.GetPizza)
	pub.GET("/pizzas/:id/history", h.PizzaHistory)
	pub.GET("/ingredients", h.ListIngredients)
	pub.GET("/ingredients/:id", h.GetIngredient)
	pub.GET("/categories", h.ListCategories)
	pub.GET("/categories/search", h.SearchCategories)
	pub.GET("/categories/:id", h.GetCategory)
	pub.GET("/categories/:id/children", h.CategoryChildren)
	pub.GET("/images", h.ListImages)
	pub.GET("/images/:id", h.GetImage)

	mut := e.Group("/v1")
	mut.Use(middleware.APIKeyAuth(keys))
	mut.Use(middleware.JWTAuth(signer))
	mut.Use(middleware.Identity(users, sessions))

	mut.POST("/pizzas", h.CreatePizza)
	mut.PUT("/pizzas/:id", h.UpdatePizza)
	mut.PATCH("/pizzas/:id", h.UpdatePizza)
	mut.DELETE("/pizzas/:id", h.DeletePizza)
	mut.POST("/pizzas/:id/restore", h.RestorePizza)

	mut.POST("/ingredients", h.CreateIngredient)
	mut.PUT("/ingredients/:id", h.UpdateIngredient)
	mut.DELETE("/ingredients/:id", h.DeleteIngredient)

	mut.POST("/categories", h.CreateCategory)
	mut.PUT("/categories/:id", h.UpdateCategory)
	mut.DELETE("/categories/:id", h.DeleteCategory)
	mut.POST("/categories/:id/restore", h.RestoreCategory)

	mut.POST("/images", h.CreateImage)
	mut.PUT("/images/:id", h.UpdateImage)
	mut.DELETE("/images/:id", h.DeleteImage)
	mut.POST("/images/:id/restore", h.RestoreImage)
}
