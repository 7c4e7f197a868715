package recipe

import (
	"time"

	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/domain/catalog"
)

type RecipeTag struct {
	ID       uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecipeID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_tag_pair;column:recipe_id" json:"recipe_id"`
	Recipe   *Recipe      `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipeID;references:ID" json:"recipe,omitempty"`
	TagID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_tag_pair;index;column:tag_id" json:"tag_id"`
	Tag      *catalog.Tag `gorm:"constraint:OnDelete:CASCADE;foreignKey:TagID;references:ID" json:"tag,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (RecipeTag) TableName() string { return "recipe_tag" }
