package recipe

import (
	"time"

	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/domain/catalog"
)

// RecipeIngredient is one ingredient line of a recipe. Lines are replaced
// wholesale on every recipe update.
type RecipeIngredient struct {
	ID           uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecipeID     uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient_pair;column:recipe_id" json:"recipe_id"`
	Recipe       *Recipe             `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipeID;references:ID" json:"recipe,omitempty"`
	IngredientID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient_pair;index;column:ingredient_id" json:"ingredient_id"`
	Ingredient   *catalog.Ingredient `gorm:"constraint:OnDelete:CASCADE;foreignKey:IngredientID;references:ID" json:"ingredient,omitempty"`
	Amount       int                 `gorm:"not null;column:amount" json:"amount"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredient" }
