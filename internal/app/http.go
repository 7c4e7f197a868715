package app

import (
	"strings"

	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/internal/http"
	httpH "github.com/platefeed/platefeed-backend/internal/http/handlers"
	httpMW "github.com/platefeed/platefeed-backend/internal/http/middleware"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/platform/tokens"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	User       *httpH.UserHandler
	Recipe     *httpH.RecipeHandler
	Ingredient *httpH.IngredientHandler
	Tag        *httpH.TagHandler
}

func wireMiddleware(log *logger.Logger, tokenService tokens.Service) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, tokenService),
	}
}

func wireHandlers(log *logger.Logger, db *gorm.DB, cfg Config, s Services, tokenService tokens.Service) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(log, db, tokenService),
		Auth:       httpH.NewAuthHandler(log, s.Auth),
		User:       httpH.NewUserHandler(log, s.User, s.Membership, cfg.PageSize),
		Recipe:     httpH.NewRecipeHandler(log, s.Recipe, s.Membership, s.ShoppingList, cfg.PageSize),
		Ingredient: httpH.NewIngredientHandler(log, s.Catalog),
		Tag:        httpH.NewTagHandler(log, s.Catalog),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	mediaDir := ""
	if strings.EqualFold(cfg.MediaStorageMode, "local") {
		mediaDir = cfg.MediaRoot
	}
	return http.NewServer(http.RouterConfig{
		Log:               log,
		AuthMiddleware:    middleware.Auth,
		AuthHandler:       handlers.Auth,
		UserHandler:       handlers.User,
		RecipeHandler:     handlers.Recipe,
		IngredientHandler: handlers.Ingredient,
		TagHandler:        handlers.Tag,
		HealthHandler:     handlers.Health,
		MediaDir:          mediaDir,
	})
}
