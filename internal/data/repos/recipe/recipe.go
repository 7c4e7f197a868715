package recipe

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/platefeed/platefeed-backend/internal/domain"
	pkgerrors "github.com/platefeed/platefeed-backend/internal/pkg/errors"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

// Filter narrows recipe listings. Zero values mean "not set". All set
// conditions apply together; listings always order newest first.
type Filter struct {
	TagSlugs    []string
	AuthorID    uuid.UUID
	FavoritedBy uuid.UUID
	InCartOf    uuid.UUID
	Limit       int
	Offset      int
}

type RecipeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, recipes []*types.Recipe) ([]*types.Recipe, error)
	GetByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.Recipe, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.Recipe, error)
	Update(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error
	List(ctx context.Context, tx *gorm.DB, filter Filter) ([]*types.Recipe, error)
	Count(ctx context.Context, tx *gorm.DB, filter Filter) (int64, error)
	ListByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID, limit int) ([]*types.Recipe, error)
	CountByAuthors(ctx context.Context, tx *gorm.DB, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type recipeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecipeRepo(db *gorm.DB, baseLog *logger.Logger) RecipeRepo {
	repoLog := baseLog.With("repo", "RecipeRepo")
	return &recipeRepo{db: db, log: repoLog}
}

func (rr *recipeRepo) Create(ctx context.Context, tx *gorm.DB, recipes []*types.Recipe) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(recipes) == 0 {
		return []*types.Recipe{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&recipes).Error; err != nil {
		return nil, err
	}

	return recipes, nil
}

func (rr *recipeRepo) GetByID(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) (*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.Recipe

	if err := transaction.WithContext(ctx).
		Where("id = ?", recipeID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (rr *recipeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, recipeIDs []uuid.UUID) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Recipe

	if len(recipeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", recipeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeRepo) Update(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(fields) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Where("id = ?", recipeID).
		Updates(fields).Error
}

func (rr *recipeRepo) Delete(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", recipeID).
		Delete(&types.Recipe{}).Error
}

func (rr *recipeRepo) List(ctx context.Context, tx *gorm.DB, filter Filter) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Recipe

	query := applyFilter(transaction.WithContext(ctx).Model(&types.Recipe{}), filter).
		Order("created_at DESC").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeRepo) Count(ctx context.Context, tx *gorm.DB, filter Filter) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64

	if err := applyFilter(transaction.WithContext(ctx).Model(&types.Recipe{}), filter).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (rr *recipeRepo) ListByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID, limit int) ([]*types.Recipe, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Recipe

	query := transaction.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *recipeRepo) CountByAuthors(ctx context.Context, tx *gorm.DB, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	counts := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// applyFilter composes the set conditions as subqueries so that a recipe
// matching several tag slugs still appears once.
func applyFilter(query *gorm.DB, filter Filter) *gorm.DB {
	if len(filter.TagSlugs) > 0 {
		query = query.Where(
			"id IN (SELECT recipe_tag.recipe_id FROM recipe_tag JOIN tag ON tag.id = recipe_tag.tag_id WHERE tag.slug IN ?)",
			filter.TagSlugs,
		)
	}
	if filter.AuthorID != uuid.Nil {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.FavoritedBy != uuid.Nil {
		query = query.Where(
			"id IN (SELECT recipe_id FROM favorite WHERE user_id = ?)",
			filter.FavoritedBy,
		)
	}
	if filter.InCartOf != uuid.Nil {
		query = query.Where(
			"id IN (SELECT recipe_id FROM shopping_cart_item WHERE user_id = ?)",
			filter.InCartOf,
		)
	}
	return query
}
