package recipe

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/platefeed/platefeed-backend/internal/domain"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

// IngredientTotal is one aggregated shopping list group: a distinct
// (name, unit) pair with amounts summed across every carted recipe.
type IngredientTotal struct {
	Name            string
	MeasurementUnit string
	Total           int
}

type RecipeIngredientRepo interface {
	// ReplaceForRecipe swaps the full ingredient line set of a recipe.
	// Callers run it inside the same transaction as the recipe write.
	ReplaceForRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, items []*types.RecipeIngredient) error
	ListForRecipes(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.RecipeIngredient, error)
	// SumForUserCart aggregates amounts grouped by (name, unit) over the
	// user's carted recipes, ordered ascending by name.
	SumForUserCart(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]IngredientTotal, error)
}

type recipeIngredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeIngredientRepo(db *gorm.DB, baseLog *logger.Logger) RecipeIngredientRepo {
	repoLog := baseLog.With("repo", "RecipeIngredientRepo")
	return &recipeIngredientRepo{db: db, log: repoLog}
}

func (rr *recipeIngredientRepo) ReplaceForRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, items []*types.RecipeIngredient) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&types.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&items).Error
}

func (rr *recipeIngredientRepo) ListForRecipes(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.RecipeIngredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.RecipeIngredient

	if len(recipeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id IN ?", recipeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeIngredientRepo) SumForUserCart(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]IngredientTotal, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var totals []IngredientTotal

	if err := transaction.WithContext(ctx).
		Model(&types.RecipeIngredient{}).
		Select("ingredient.name AS name, ingredient.measurement_unit AS measurement_unit, SUM(recipe_ingredient.amount) AS total").
		Joins("JOIN ingredient ON ingredient.id = recipe_ingredient.ingredient_id").
		Joins("JOIN shopping_cart_item ON shopping_cart_item.recipe_id = recipe_ingredient.recipe_id").
		Where("shopping_cart_item.user_id = ?", userID).
		Group("ingredient.name, ingredient.measurement_unit").
		Order("ingredient.name ASC").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}
