package routes

import (
	"net/http"

	"github.com/bidpoint/backend/internal/auth"
	"github.com/bidpoint/backend/internal/handlers"
	"github.com/bidpoint/backend/internal/middleware"
	"github.com/bidpoint/backend/internal/models"
	"github.com/go-chi/chi/v5"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Users  *handlers.UserHandler
	Roles  *handlers.RoleHandler
	Items  *handlers.ItemHandler
	Auth   *handlers.AuthHandler
	Health http.HandlerFunc
}

// Limits configures per-minute request budgets.
type Limits struct {
	LoginPerIP int
	APIPerUser int
}

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	h Handlers,
	tokenManager *auth.TokenManager,
	userRepo auth.UserRepository,
	limits Limits,
) {
	router.Get("/health", h.Health)

	// Public routes
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(limits.LoginPerIP))
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/refresh", h.Auth.Refresh)
		r.Post("/users", h.Users.Register)
	})

	router.Get("/items/search", h.Items.Search)
	router.Get("/items/{id}", h.Items.GetItem)
	router.Get("/categories", h.Items.ListCategories)

	// Protected routes
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(tokenManager))
		r.Use(middleware.RateLimitByUser(limits.APIPerUser))

		r.Post("/items", h.Items.CreateItem)
		r.Get("/users/{username}", h.Users.GetUser)
		r.Get("/users/{username}/approved", h.Users.IsApproved)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(userRepo, models.RoleAdmin))

			r.Get("/users", h.Users.ListUsers)
			r.Put("/users/{username}/approve", h.Users.Approve)
			r.Post("/users/{username}/roles/{role}", h.Users.AddRole)
			r.Delete("/users/{username}/roles/{role}", h.Users.RemoveRole)
			r.Get("/roles", h.Roles.ListRoles)
			r.Post("/roles", h.Roles.CreateRole)
		})
	})
}
