package app

import (
	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

type Repos struct {
	User             repos.UserRepo
	Subscription     repos.SubscriptionRepo
	Ingredient       repos.IngredientRepo
	Tag              repos.TagRepo
	Recipe           repos.RecipeRepo
	RecipeIngredient repos.RecipeIngredientRepo
	RecipeTag        repos.RecipeTagRepo
	Membership       repos.MembershipRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:             repos.NewUserRepo(db, log),
		Subscription:     repos.NewSubscriptionRepo(db, log),
		Ingredient:       repos.NewIngredientRepo(db, log),
		Tag:              repos.NewTagRepo(db, log),
		Recipe:           repos.NewRecipeRepo(db, log),
		RecipeIngredient: repos.NewRecipeIngredientRepo(db, log),
		RecipeTag:        repos.NewRecipeTagRepo(db, log),
		Membership:       repos.NewMembershipRepo(db, log),
	}
}
