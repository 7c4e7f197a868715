package user

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/platefeed/platefeed-backend/internal/domain"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

// SubscriptionRepo is the read side of the follower/author relation. Row
// creation and deletion go through the membership repo.
type SubscriptionRepo interface {
	Exists(ctx context.Context, tx *gorm.DB, followerID, authorID uuid.UUID) (bool, error)
	ListAuthors(ctx context.Context, tx *gorm.DB, followerID uuid.UUID, limit, offset int) ([]*types.User, error)
	CountAuthors(ctx context.Context, tx *gorm.DB, followerID uuid.UUID) (int64, error)
	AuthorIDSet(ctx context.Context, tx *gorm.DB, followerID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	repoLog := baseLog.With("repo", "SubscriptionRepo")
	return &subscriptionRepo{db: db, log: repoLog}
}

func (sr *subscriptionRepo) Exists(ctx context.Context, tx *gorm.DB, followerID, authorID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.Subscription{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (sr *subscriptionRepo) ListAuthors(ctx context.Context, tx *gorm.DB, followerID uuid.UUID, limit, offset int) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.User

	query := transaction.WithContext(ctx).
		Model(&types.User{}).
		Joins(`JOIN subscription ON subscription.author_id = "user".id`).
		Where("subscription.follower_id = ?", followerID).
		Order("subscription.created_at DESC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *subscriptionRepo) CountAuthors(ctx context.Context, tx *gorm.DB, followerID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var count int64

	if err := transaction.WithContext(ctx).
		Model(&types.Subscription{}).
		Where("follower_id = ?", followerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (sr *subscriptionRepo) AuthorIDSet(ctx context.Context, tx *gorm.DB, followerID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	set := make(map[uuid.UUID]bool, len(authorIDs))
	if followerID == uuid.Nil || len(authorIDs) == 0 {
		return set, nil
	}

	var found []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Subscription{}).
		Where("follower_id = ? AND author_id IN ?", followerID, authorIDs).
		Pluck("author_id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}
