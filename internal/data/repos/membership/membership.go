package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	types "github.com/platefeed/platefeed-backend/internal/domain"
	pkgerrors "github.com/platefeed/platefeed-backend/internal/pkg/errors"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

// Kind selects which toggle relation a call operates on. All three share
// one storage mechanism: an (actor, target) row guarded by a composite
// unique index.
type Kind string

const (
	KindFavorite     Kind = "favorite"
	KindShoppingCart Kind = "shopping_cart"
	KindSubscription Kind = "subscription"
)

const uniqueViolationCode = "23505"

type MembershipRepo interface {
	// Add inserts the relation row. A duplicate insert, concurrent or
	// not, surfaces as pkgerrors.ErrConflict; the unique index is the
	// sole arbiter.
	Add(ctx context.Context, tx *gorm.DB, kind Kind, actorID, targetID uuid.UUID) error
	// Remove deletes the relation row and reports whether one existed.
	Remove(ctx context.Context, tx *gorm.DB, kind Kind, actorID, targetID uuid.UUID) (bool, error)
	Exists(ctx context.Context, tx *gorm.DB, kind Kind, actorID, targetID uuid.UUID) (bool, error)
	// TargetIDSet reports which of targetIDs the actor holds the relation
	// for, in one query.
	TargetIDSet(ctx context.Context, tx *gorm.DB, kind Kind, actorID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type membershipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMembershipRepo(db *gorm.DB, baseLog *logger.Logger) MembershipRepo {
	repoLog := baseLog.With("repo", "MembershipRepo")
	return &membershipRepo{db: db, log: repoLog}
}

func (mr *membershipRepo) Add(ctx context.Context, tx *gorm.DB, kind Kind, actorID, targetID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	row, err := newRow(kind, actorID, targetID)
	if err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueViolation(err) {
			return pkgerrors.ErrConflict
		}
		return err
	}
	return nil
}

func (mr *membershipRepo) Remove(ctx context.Context, tx *gorm.DB, kind Kind, actorID, targetID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	model, actorCol, targetCol, err := relationColumns(kind)
	if err != nil {
		return false, err
	}
	result := transaction.WithContext(ctx).
		Where(fmt.Sprintf("%s = ? AND %s = ?", actorCol, targetCol), actorID, targetID).
		Delete(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (mr *membershipRepo) Exists(ctx context.Context, tx *gorm.DB, kind Kind, actorID, targetID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	model, actorCol, targetCol, err := relationColumns(kind)
	if err != nil {
		return false, err
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(model).
		Where(fmt.Sprintf("%s = ? AND %s = ?", actorCol, targetCol), actorID, targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (mr *membershipRepo) TargetIDSet(ctx context.Context, tx *gorm.DB, kind Kind, actorID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	set := make(map[uuid.UUID]bool, len(targetIDs))
	if actorID == uuid.Nil || len(targetIDs) == 0 {
		return set, nil
	}

	model, actorCol, targetCol, err := relationColumns(kind)
	if err != nil {
		return nil, err
	}

	var found []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(model).
		Where(fmt.Sprintf("%s = ? AND %s IN ?", actorCol, targetCol), actorID, targetIDs).
		Pluck(targetCol, &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

func newRow(kind Kind, actorID, targetID uuid.UUID) (any, error) {
	switch kind {
	case KindFavorite:
		return &types.Favorite{UserID: actorID, RecipeID: targetID}, nil
	case KindShoppingCart:
		return &types.ShoppingCartItem{UserID: actorID, RecipeID: targetID}, nil
	case KindSubscription:
		return &types.Subscription{FollowerID: actorID, AuthorID: targetID}, nil
	default:
		return nil, fmt.Errorf("unknown membership kind %q", kind)
	}
}

func relationColumns(kind Kind) (model any, actorCol, targetCol string, err error) {
	switch kind {
	case KindFavorite:
		return &types.Favorite{}, "user_id", "recipe_id", nil
	case KindShoppingCart:
		return &types.ShoppingCartItem{}, "user_id", "recipe_id", nil
	case KindSubscription:
		return &types.Subscription{}, "follower_id", "author_id", nil
	default:
		return nil, "", "", fmt.Errorf("unknown membership kind %q", kind)
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
