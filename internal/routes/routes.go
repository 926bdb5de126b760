package routes

import (
	"io/fs"
	"net/http"

	"github.com/homewatch/dashboard/assets"
	"github.com/homewatch/dashboard/internal/app"
	"github.com/homewatch/dashboard/internal/handler"
	"github.com/homewatch/dashboard/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	dashboard := handler.NewDashboardHandler(app.FamilyService, app.DashboardService, app.AvatarService)
	family := handler.NewFamilyHandler(app.FamilyService)
	doorbell := handler.NewDoorbellHandler(app.DoorbellService)
	profile := handler.NewProfileHandler(app.AvatarService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	mux.HandleFunc("GET /healthz", home.Healthz)
	mux.HandleFunc("GET /{$}", home.HomePage)

	// Auth (rate limited)
	authLimit := middleware.RateLimitAuth()

	mux.HandleFunc("GET /auth/login", middleware.RequireGuest(auth.LoginPage))
	mux.HandleFunc("POST /auth/login", authLimit(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("GET /auth/register", middleware.RequireGuest(auth.RegisterPage))
	mux.HandleFunc("POST /auth/register", authLimit(middleware.RequireGuest(auth.Register)))
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	for _, provider := range []string{"google", "github"} {
		mux.HandleFunc("GET /auth/"+provider, authLimit(middleware.RequireGuest(auth.OAuthStart(provider))))
		mux.HandleFunc("GET /auth/"+provider+"/callback", authLimit(auth.OAuthCallback(provider)))
	}

	// ============================================================================
	// PROTECTED ROUTES (/app/*)
	// ============================================================================

	joinLimit := middleware.RateLimitJoin()

	// Pages
	mux.HandleFunc("GET /app/dashboard", middleware.RequireAuth(dashboard.DashboardPage))
	mux.HandleFunc("GET /app/setup", middleware.RequireAuth(dashboard.SetupPage))
	mux.HandleFunc("POST /app/setup/create", middleware.RequireAuth(dashboard.SetupCreate))
	mux.HandleFunc("POST /app/setup/join", middleware.RequireAuth(joinLimit(dashboard.SetupJoin)))
	mux.HandleFunc("GET /app/doorbells", middleware.RequireAuth(doorbell.DoorbellsPage))
	mux.HandleFunc("POST /app/doorbells", middleware.RequireAuth(doorbell.Register))

	// Family API
	mux.HandleFunc("POST /app/family", middleware.RequireSession(family.Create))
	mux.HandleFunc("POST /app/family/join", middleware.RequireSession(joinLimit(family.Join)))
	mux.HandleFunc("GET /app/family", middleware.RequireSession(family.Family))
	mux.HandleFunc("GET /app/family/status", middleware.RequireSession(family.Status))
	mux.HandleFunc("GET /app/family/join-code", middleware.RequireSession(family.JoinCode))
	mux.HandleFunc("GET /app/family/members", middleware.RequireSession(family.Members))

	// Profile
	mux.HandleFunc("POST /app/profile/avatar", middleware.RequireSession(profile.UploadAvatar))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config first: CSRF and pages read it
		middleware.SecurityHeaders,
		middleware.Auth(app.AuthService),
		middleware.RequestLogging,
		middleware.CSRFProtection,
	)
}
