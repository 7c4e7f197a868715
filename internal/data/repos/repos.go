package repos

import (
	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/internal/data/repos/catalog"
	"github.com/platefeed/platefeed-backend/internal/data/repos/membership"
	"github.com/platefeed/platefeed-backend/internal/data/repos/recipe"
	"github.com/platefeed/platefeed-backend/internal/data/repos/user"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type SubscriptionRepo = user.SubscriptionRepo

type IngredientRepo = catalog.IngredientRepo
type TagRepo = catalog.TagRepo

type RecipeRepo = recipe.RecipeRepo
type RecipeIngredientRepo = recipe.RecipeIngredientRepo
type RecipeTagRepo = recipe.RecipeTagRepo
type RecipeFilter = recipe.Filter
type IngredientTotal = recipe.IngredientTotal

type MembershipRepo = membership.MembershipRepo
type MembershipKind = membership.Kind

const (
	MembershipFavorite     = membership.KindFavorite
	MembershipShoppingCart = membership.KindShoppingCart
	MembershipSubscription = membership.KindSubscription
)

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	return user.NewSubscriptionRepo(db, baseLog)
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	return catalog.NewIngredientRepo(db, baseLog)
}
func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return catalog.NewTagRepo(db, baseLog)
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	return recipe.NewRecipeRepo(db, baseLog)
}
func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	return recipe.NewRecipeIngredientRepo(db, baseLog)
}
func NewRecipeTagRepo(db *gorm.DB, baseLog *logger.Logger) RecipeTagRepo {
	return recipe.NewRecipeTagRepo(db, baseLog)
}

func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	return membership.NewMembershipRepo(db, baseLog)
}
