package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/internal/data/db"
	"github.com/platefeed/platefeed-backend/internal/http"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/platform/media"
	"github.com/platefeed/platefeed-backend/internal/platform/tokens"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	tokenService tokens.Service
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "production"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	tokenService, err := tokens.NewService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init token service: %w", err)
	}

	mediaStore, err := media.NewStore(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init media store: %w", err)
	}

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, tokenService, mediaStore)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, theDB, cfg, serviceset, tokenService)
	middlewareset := wireMiddleware(log, tokenService)
	server := wireServer(log, cfg, handlerset, middlewareset)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Router:       server.Engine,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		tokenService: tokenService,
	}, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.tokenService != nil {
		if err := a.tokenService.Close(); err != nil {
			a.Log.Warn("Failed to close token service", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
