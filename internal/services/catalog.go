package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	types "github.com/platefeed/platefeed-backend/internal/domain"
	pkgerrors "github.com/platefeed/platefeed-backend/internal/pkg/errors"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

// CatalogService serves the ingredient and tag reference data. Both lists
// are unpaginated; ingredients filter by case-insensitive name prefix.
type CatalogService interface {
	Ingredients(ctx context.Context, namePrefix string) ([]*IngredientView, error)
	Ingredient(ctx context.Context, ingredientID uuid.UUID) (*IngredientView, error)
	Tags(ctx context.Context) ([]*TagView, error)
	Tag(ctx context.Context, tagID uuid.UUID) (*TagView, error)
}

type catalogService struct {
	log            *logger.Logger
	ingredientRepo repos.IngredientRepo
	tagRepo        repos.TagRepo
}

func NewCatalogService(log *logger.Logger, ingredientRepo repos.IngredientRepo, tagRepo repos.TagRepo) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		log:            serviceLog,
		ingredientRepo: ingredientRepo,
		tagRepo:        tagRepo,
	}
}

func (cs *catalogService) Ingredients(ctx context.Context, namePrefix string) ([]*IngredientView, error) {
	ingredients, err := cs.ingredientRepo.List(ctx, nil, namePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	views := make([]*IngredientView, 0, len(ingredients))
	for _, ing := range ingredients {
		views = append(views, ingredientView(ing))
	}
	return views, nil
}

func (cs *catalogService) Ingredient(ctx context.Context, ingredientID uuid.UUID) (*IngredientView, error) {
	ing, err := cs.ingredientRepo.GetByID(ctx, nil, ingredientID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, apierr.NotFound(notFoundMessage)
		}
		return nil, fmt.Errorf("failed to load ingredient: %w", err)
	}
	return ingredientView(ing), nil
}

func (cs *catalogService) Tags(ctx context.Context) ([]*TagView, error) {
	tags, err := cs.tagRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	views := make([]*TagView, 0, len(tags))
	for _, tag := range tags {
		views = append(views, tagView(tag))
	}
	return views, nil
}

func (cs *catalogService) Tag(ctx context.Context, tagID uuid.UUID) (*TagView, error) {
	tag, err := cs.tagRepo.GetByID(ctx, nil, tagID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, apierr.NotFound(notFoundMessage)
		}
		return nil, fmt.Errorf("failed to load tag: %w", err)
	}
	return tagView(tag), nil
}

func ingredientView(ing *types.Ingredient) *IngredientView {
	return &IngredientView{
		ID:              ing.ID,
		Name:            ing.Name,
		MeasurementUnit: ing.MeasurementUnit,
	}
}

func tagView(tag *types.Tag) *TagView {
	return &TagView{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}
