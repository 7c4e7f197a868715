package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/platefeed/platefeed-backend/internal/domain"
	pkgerrors "github.com/platefeed/platefeed-backend/internal/pkg/errors"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

type IngredientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ingredients []*types.Ingredient) ([]*types.Ingredient, error)
	GetByID(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID) (*types.Ingredient, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.Ingredient, error)
	// List returns the catalog ordered by name; namePrefix filters
	// case-insensitively when non-empty.
	List(ctx context.Context, tx *gorm.DB, namePrefix string) ([]*types.Ingredient, error)
	GetOrCreate(ctx context.Context, tx *gorm.DB, name, measurementUnit string) (*types.Ingredient, bool, error)
}

type ingredientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIngredientRepo(db *gorm.DB, baseLog *logger.Logger) IngredientRepo {
	repoLog := baseLog.With("repo", "IngredientRepo")
	return &ingredientRepo{db: db, log: repoLog}
}

func (ir *ingredientRepo) Create(ctx context.Context, tx *gorm.DB, ingredients []*types.Ingredient) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if len(ingredients) == 0 {
		return []*types.Ingredient{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&ingredients).Error; err != nil {
		return nil, err
	}

	return ingredients, nil
}

func (ir *ingredientRepo) GetByID(ctx context.Context, tx *gorm.DB, ingredientID uuid.UUID) (*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var result types.Ingredient

	if err := transaction.WithContext(ctx).
		Where("id = ?", ingredientID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (ir *ingredientRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ingredientIDs []uuid.UUID) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Ingredient

	if len(ingredientIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ingredientIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *ingredientRepo) List(ctx context.Context, tx *gorm.DB, namePrefix string) ([]*types.Ingredient, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.Ingredient

	query := transaction.WithContext(ctx).Order("name ASC")
	if namePrefix != "" {
		// The prefix is user input; % and _ must match literally.
		query = query.Where("name ILIKE ?", escapeLikePattern(namePrefix)+"%")
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

func (ir *ingredientRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, name, measurementUnit string) (*types.Ingredient, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var result types.Ingredient

	err := transaction.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, measurementUnit).
		First(&result).Error
	if err == nil {
		return &result, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	created := types.Ingredient{Name: name, MeasurementUnit: measurementUnit}
	if err := transaction.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, false, err
	}
	return &created, true, nil
}
