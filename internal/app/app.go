package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/mediafaves/internal/config"
	"github.com/templui/mediafaves/internal/db"
	"github.com/templui/mediafaves/internal/pixabay"
	"github.com/templui/mediafaves/internal/repository"
	"github.com/templui/mediafaves/internal/service"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	FavoriteService *service.FavoriteService
	SearchService   *service.SearchService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Media search client
	searcher := pixabay.New(
		cfg.PixabayAPIKey,
		cfg.PixabayBaseURL,
		cfg.PixabayVideoURL(),
		pixabay.WithTimeout(cfg.SearchTimeout),
		pixabay.WithMaxTries(cfg.SearchMaxTries),
	)

	return Wire(cfg, database, searcher), nil
}

// Wire builds the services over an open database and a media searcher.
func Wire(cfg *config.Config, database *sqlx.DB, searcher service.MediaSearcher) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	favoriteRepository := repository.NewFavoriteRepository(database)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     service.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry),
		FavoriteService: service.NewFavoriteService(favoriteRepository),
		SearchService:   service.NewSearchService(searcher),
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
