package recipe

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/platefeed/platefeed-backend/internal/domain"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

type RecipeTagRepo interface {
	// ReplaceForRecipe swaps the full tag set of a recipe. Callers run it
	// inside the same transaction as the recipe write.
	ReplaceForRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error
}

type recipeTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeTagRepo(db *gorm.DB, baseLog *logger.Logger) RecipeTagRepo {
	repoLog := baseLog.With("repo", "RecipeTagRepo")
	return &recipeTagRepo{db: db, log: repoLog}
}

func (rr *recipeTagRepo) ReplaceForRecipe(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Delete(&types.RecipeTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]*types.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, &types.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}
