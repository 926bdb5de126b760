package app

import (
	"context"
	"fmt"

	"github.com/homewatch/dashboard/internal/config"
	"github.com/homewatch/dashboard/internal/db"
	"github.com/homewatch/dashboard/internal/repository"
	"github.com/homewatch/dashboard/internal/service"
	"github.com/homewatch/dashboard/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	Store            repository.Store
	AuthService      *service.AuthService
	EmailService     *service.EmailService
	FamilyService    *service.FamilyService
	DashboardService *service.DashboardService
	DoorbellService  *service.DoorbellService
	AvatarService    *service.AvatarService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store := repository.NewStore(database)

	// Storage is optional; without a bucket avatar uploads are disabled
	var fileStorage storage.Storage
	if cfg.StorageEnabled() {
		fileStorage, err = storage.New(ctx, cfg)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	dashboardService := service.NewDashboardService(
		store,
		cfg.DashboardCacheSize,
		cfg.DashboardCacheTTL,
		cfg.FeedEventCount,
	)
	familyService := service.NewFamilyService(
		store,
		service.NewIdentityResolver(),
		emailService,
		dashboardService,
		cfg.JoinCodeMaxAttempts,
	)
	authService := service.NewAuthService(
		store.Users(),
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.SecureCookies(),
	)

	return &App{
		Cfg:              cfg,
		DB:               database,
		Store:            store,
		AuthService:      authService,
		EmailService:     emailService,
		FamilyService:    familyService,
		DashboardService: dashboardService,
		DoorbellService:  service.NewDoorbellService(store, dashboardService),
		AvatarService:    service.NewAvatarService(store.Users(), fileStorage, dashboardService),
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
