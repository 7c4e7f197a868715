package user

import (
	"time"

	"github.com/google/uuid"
)

// Subscription links a follower to an author they follow. The composite
// unique index is the sole arbiter for concurrent duplicate follows; the
// follower<>author CHECK constraint lives in db.EnsureConstraints.
type Subscription struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_follower_author;column:follower_id" json:"follower_id"`
	Follower   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:FollowerID;references:ID" json:"follower,omitempty"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_follower_author;index;column:author_id" json:"author_id"`
	Author     *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:AuthorID;references:ID" json:"author,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Subscription) TableName() string { return "subscription" }
