package recipe

import (
	"time"

	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/domain/user"
)

// Favorite marks a recipe as favorited by a user. The composite unique
// index arbitrates concurrent duplicate adds.
type Favorite struct {
	ID       uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe;column:user_id" json:"user_id"`
	User     *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	RecipeID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe;index;column:recipe_id" json:"recipe_id"`
	Recipe   *Recipe    `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipeID;references:ID" json:"recipe,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Favorite) TableName() string { return "favorite" }
