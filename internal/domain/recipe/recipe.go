package recipe

import (
	"time"

	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/domain/user"
)

type Recipe struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AuthorID       uuid.UUID  `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	Author         *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Name           string     `gorm:"size:200;not null;column:name" json:"name"`
	ImageBucketKey string     `gorm:"column:image_bucket_key" json:"-"`
	ImageURL       string     `gorm:"column:image_url" json:"image_url"`
	Text           string     `gorm:"type:text;not null;column:text" json:"text"`
	CookingTime    int        `gorm:"not null;column:cooking_time" json:"cooking_time"`

	// Listings order by newest first.
	CreatedAt time.Time `gorm:"not null;default:now();index:idx_recipe_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Recipe) TableName() string { return "recipe" }
