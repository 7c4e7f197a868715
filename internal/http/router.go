package http

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/platefeed-backend/internal/http/handlers"
	"github.com/platefeed/platefeed-backend/internal/http/middleware"
	"github.com/platefeed/platefeed-backend/internal/http/response"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log               *logger.Logger
	AuthMiddleware    *middleware.AuthMiddleware
	AuthHandler       *handlers.AuthHandler
	UserHandler       *handlers.UserHandler
	RecipeHandler     *handlers.RecipeHandler
	IngredientHandler *handlers.IngredientHandler
	TagHandler        *handlers.TagHandler
	HealthHandler     *handlers.HealthHandler

	// MediaDir, when set, is served at /media/ for local storage mode.
	MediaDir string
}

// NewRouter builds the engine and mounts every configured handler group.
// Unmatched routes and methods answer through the same failure mapper as
// the handlers, so the envelope is uniform across the API.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Log))
	r.Use(middleware.CORS())

	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, cfg.Log, apierr.NotFound("Not found."))
	})
	r.NoMethod(func(c *gin.Context) {
		response.Fail(c, cfg.Log, apierr.MethodNotAllowed(fmt.Sprintf("Method %q not allowed.", c.Request.Method)))
	})

	requireAuth := passthrough
	optionalAuth := passthrough
	if cfg.AuthMiddleware != nil {
		requireAuth = cfg.AuthMiddleware.RequireAuth()
		optionalAuth = cfg.AuthMiddleware.OptionalAuth()
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MediaDir != "" {
		r.Static("/media", cfg.MediaDir)
	}

	api := r.Group("/api")

	if cfg.AuthHandler != nil {
		api.POST("/auth/token/login/", cfg.AuthHandler.Login)
		api.POST("/auth/token/logout/", requireAuth, cfg.AuthHandler.Logout)
	}

	if cfg.UserHandler != nil {
		api.POST("/users/", cfg.UserHandler.Register)
		api.GET("/users/", optionalAuth, cfg.UserHandler.List)
		api.GET("/users/subscriptions/", requireAuth, cfg.UserHandler.Subscriptions)
		api.GET("/users/me/", requireAuth, cfg.UserHandler.Me)
		api.POST("/users/set_password/", requireAuth, cfg.UserHandler.SetPassword)
		api.PUT("/users/me/avatar/", requireAuth, cfg.UserHandler.SetAvatar)
		api.DELETE("/users/me/avatar/", requireAuth, cfg.UserHandler.DeleteAvatar)
		api.GET("/users/:id/", optionalAuth, cfg.UserHandler.Get)
		api.POST("/users/:id/subscribe/", requireAuth, cfg.UserHandler.Subscribe)
		api.DELETE("/users/:id/subscribe/", requireAuth, cfg.UserHandler.Unsubscribe)
	}

	if cfg.TagHandler != nil {
		api.GET("/tags/", cfg.TagHandler.List)
		api.GET("/tags/:id/", cfg.TagHandler.Get)
	}

	if cfg.IngredientHandler != nil {
		api.GET("/ingredients/", cfg.IngredientHandler.List)
		api.GET("/ingredients/:id/", cfg.IngredientHandler.Get)
	}

	if cfg.RecipeHandler != nil {
		api.GET("/recipes/", optionalAuth, cfg.RecipeHandler.List)
		api.POST("/recipes/", requireAuth, cfg.RecipeHandler.Create)
		api.GET("/recipes/download_shopping_cart/", requireAuth, cfg.RecipeHandler.DownloadShoppingCart)
		api.GET("/recipes/:id/", optionalAuth, cfg.RecipeHandler.Get)
		api.PATCH("/recipes/:id/", requireAuth, cfg.RecipeHandler.Update)
		api.DELETE("/recipes/:id/", requireAuth, cfg.RecipeHandler.Delete)
		api.GET("/recipes/:id/get-link/", cfg.RecipeHandler.GetLink)
		api.POST("/recipes/:id/favorite/", requireAuth, cfg.RecipeHandler.AddFavorite)
		api.DELETE("/recipes/:id/favorite/", requireAuth, cfg.RecipeHandler.RemoveFavorite)
		api.POST("/recipes/:id/shopping_cart/", requireAuth, cfg.RecipeHandler.AddToCart)
		api.DELETE("/recipes/:id/shopping_cart/", requireAuth, cfg.RecipeHandler.RemoveFromCart)
	}

	return r
}

func passthrough(c *gin.Context) {
	c.Next()
}
