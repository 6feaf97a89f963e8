package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"folio/internal/db"
	"folio/internal/handlers"
	"folio/internal/handlers/api"
	"folio/internal/middleware"
	"folio/internal/portfolio"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB) error {
	shares := portfolio.NewShareManager(database)
	orders := portfolio.NewOrderCoordinator(database)
	projector := portfolio.NewProjector(shares, database)

	authMiddleware := middleware.NewAuthMiddleware(s.SessionStore, database)

	dashboardHandler := handlers.NewDashboardHandler(database, shares, s.Cfg)
	publicPageHandler := handlers.NewPublicHandler(projector, s.Cfg)

	profileAPI := api.NewProfileHandler(database)
	sectionAPI := api.NewSectionHandler(database, orders)
	projectAPI := api.NewProjectHandler(database)
	shareAPI := api.NewShareHandler(shares, database)
	publicAPI := api.NewPublicHandler(projector)
	healthzAPI := api.NewHealthzHandler(database)

	// Auth routes - OIDC is required for the editing surface
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. All owners must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	s.App.Get("/login", func(c fiber.Ctx) error {
		return c.Render("login", handlers.MergeBranding(fiber.Map{"Title": "Sign in"}, s.Cfg))
	})

	// Owner dashboard
	s.App.Get("/", authMiddleware.RequireAuth, dashboardHandler.Show)

	// JSON API for the editing surface
	s.App.Get("/api/profile", authMiddleware.RequireAuthJSON, profileAPI.Get)
	s.App.Put("/api/profile", authMiddleware.RequireAuthJSON, profileAPI.Update)

	s.App.Get("/api/sections", authMiddleware.RequireAuthJSON, sectionAPI.List)
	s.App.Post("/api/sections", authMiddleware.RequireAuthJSON, sectionAPI.Create)
	s.App.Put("/api/sections/:id", authMiddleware.RequireAuthJSON, sectionAPI.Update)
	s.App.Delete("/api/sections/:id", authMiddleware.RequireAuthJSON, sectionAPI.Delete)
	s.App.Post("/api/sections/:id/move", authMiddleware.RequireAuthJSON, sectionAPI.Move)

	s.App.Post("/api/projects", authMiddleware.RequireAuthJSON, projectAPI.Create)
	s.App.Put("/api/projects/:id", authMiddleware.RequireAuthJSON, projectAPI.Update)
	s.App.Delete("/api/projects/:id", authMiddleware.RequireAuthJSON, projectAPI.Delete)

	s.App.Post("/api/links", authMiddleware.RequireAuthJSON, projectAPI.CreateLink)
	s.App.Put("/api/links/:id", authMiddleware.RequireAuthJSON, projectAPI.UpdateLink)
	s.App.Delete("/api/links/:id", authMiddleware.RequireAuthJSON, projectAPI.DeleteLink)

	s.App.Post("/api/features", authMiddleware.RequireAuthJSON, projectAPI.CreateFeature)
	s.App.Delete("/api/features/:id", authMiddleware.RequireAuthJSON, projectAPI.DeleteFeature)

	s.App.Get("/api/share", authMiddleware.RequireAuthJSON, shareAPI.Get)
	s.App.Post("/api/share/rotate", authMiddleware.RequireAuthJSON, shareAPI.Rotate)
	s.App.Put("/api/share/slug", authMiddleware.RequireAuthJSON, shareAPI.SetSlug)
	s.App.Put("/api/share/active", authMiddleware.RequireAuthJSON, shareAPI.SetActive)
	s.App.Get("/api/share/check", authMiddleware.RequireAuthJSON, shareAPI.CheckSlug)

	// Public read surface: the token is the capability, no auth
	s.App.Get("/api/portfolio/:token", publicAPI.Resolve)
	s.App.Get("/p/:token", publicPageHandler.Show)

	// Operational endpoints
	s.App.Get("/healthz", healthzAPI.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}
