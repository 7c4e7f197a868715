package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/platform/media"
	"github.com/platefeed/platefeed-backend/internal/platform/tokens"
	"github.com/platefeed/platefeed-backend/internal/services"
)

type Services struct {
	View         services.ViewService
	Avatar       services.AvatarService
	Auth         services.AuthService
	User         services.UserService
	Catalog      services.CatalogService
	Recipe       services.RecipeService
	Membership   services.MembershipService
	ShoppingList services.ShoppingListService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, tokenService tokens.Service, mediaStore media.Store) (Services, error) {
	log.Info("Wiring services...")

	viewService := services.NewViewService(log, r.User, r.Subscription, r.Recipe, r.RecipeIngredient, r.Membership)
	avatarService, err := services.NewAvatarService(log, mediaStore)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	return Services{
		View:         viewService,
		Avatar:       avatarService,
		Auth:         services.NewAuthService(log, r.User, tokenService),
		User:         services.NewUserService(db, log, r.User, r.Subscription, avatarService, viewService),
		Catalog:      services.NewCatalogService(log, r.Ingredient, r.Tag),
		Recipe:       services.NewRecipeService(db, log, r.Recipe, r.RecipeIngredient, r.RecipeTag, r.Ingredient, r.Tag, viewService, mediaStore, cfg.PublicBaseURL),
		Membership:   services.NewMembershipService(log, r.Membership, r.Recipe, r.User, viewService),
		ShoppingList: services.NewShoppingListService(log, r.RecipeIngredient),
	}, nil
}
