package routes

import (
	"net/http"

	"github.com/templui/mediafaves/internal/app"
	"github.com/templui/mediafaves/internal/handler"
	"github.com/templui/mediafaves/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService)
	favorite := handler.NewFavoriteHandler(app.FavoriteService)
	search := handler.NewSearchHandler(app.SearchService)
	health := handler.NewHealthHandler(app.DB)

	requireToken := middleware.RequireToken(app.AuthService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// Auth
	mux.HandleFunc("POST /api/auth/register", auth.Register)
	mux.HandleFunc("POST /api/auth/login", auth.Login)

	// ============================================================================
	// PROTECTED ROUTES (x-auth-token)
	// ============================================================================

	mux.HandleFunc("POST /api/auth/password", requireToken(auth.ChangePassword))

	// Search
	mux.HandleFunc("GET /api/search", requireToken(search.Search))

	// Favorites
	mux.HandleFunc("GET /api/favorites", requireToken(favorite.List))
	mux.HandleFunc("GET /api/favorites/ids", requireToken(favorite.IDs))
	mux.HandleFunc("POST /api/favorites", requireToken(favorite.Add))
	mux.HandleFunc("DELETE /api/favorites/{contentId}", requireToken(favorite.Remove))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("GET /api/", handler.NotFound)

	// Static frontend
	mux.Handle("GET /", http.FileServer(http.Dir(app.Cfg.StaticDir)))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestLogging, // Assigns the request id used by later log lines
		middleware.Recover,
		middleware.CORS(app.Cfg.CORSOrigin),
	)

	return handler
}
