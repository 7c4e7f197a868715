package catalog

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name  string    `gorm:"size:64;uniqueIndex;not null;column:name" json:"name"`
	Color string    `gorm:"size:7;uniqueIndex;not null;column:color" json:"color"`
	Slug  string    `gorm:"size:64;uniqueIndex;not null;column:slug" json:"slug"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Tag) TableName() string { return "tag" }
