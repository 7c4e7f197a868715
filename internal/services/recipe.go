package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	types "github.com/platefeed/platefeed-backend/internal/domain"
	pkgerrors "github.com/platefeed/platefeed-backend/internal/pkg/errors"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/platform/media"
)

// RecipeDraft is the write shape for create and update. Image carries a
// base64 data URI; it is required on create and optional on update.
type RecipeDraft struct {
	Name        string                `json:"name"`
	Text        string                `json:"text"`
	CookingTime int                   `json:"cooking_time"`
	Image       string                `json:"image"`
	Ingredients []RecipeIngredientRef `json:"ingredients"`
	Tags        []uuid.UUID           `json:"tags"`
}

type RecipeIngredientRef struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount"`
}

// RecipeListParams mirrors the query-string filters. Favorited and InCart
// require an authenticated viewer; anonymous callers get an empty result.
type RecipeListParams struct {
	TagSlugs  []string
	AuthorID  uuid.UUID
	Favorited bool
	InCart    bool
	Limit     int
	Offset    int
}

type RecipeService interface {
	Create(ctx context.Context, authorID uuid.UUID, draft RecipeDraft) (*RecipeView, error)
	Update(ctx context.Context, actorID, recipeID uuid.UUID, draft RecipeDraft) (*RecipeView, error)
	Delete(ctx context.Context, actorID, recipeID uuid.UUID) error
	Get(ctx context.Context, viewerID, recipeID uuid.UUID) (*RecipeView, error)
	List(ctx context.Context, viewerID uuid.UUID, params RecipeListParams) ([]*RecipeView, int64, error)
	GetLink(ctx context.Context, recipeID uuid.UUID) (string, error)
}

type recipeService struct {
	db                   *gorm.DB
	log                  *logger.Logger
	recipeRepo           repos.RecipeRepo
	recipeIngredientRepo repos.RecipeIngredientRepo
	recipeTagRepo        repos.RecipeTagRepo
	ingredientRepo       repos.IngredientRepo
	tagRepo              repos.TagRepo
	viewService          ViewService
	mediaStore           media.Store
	publicBaseURL        string
}

func NewRecipeService(
	db *gorm.DB,
	log *logger.Logger,
	recipeRepo repos.RecipeRepo,
	recipeIngredientRepo repos.RecipeIngredientRepo,
	recipeTagRepo repos.RecipeTagRepo,
	ingredientRepo repos.IngredientRepo,
	tagRepo repos.TagRepo,
	viewService ViewService,
	mediaStore media.Store,
	publicBaseURL string,
) RecipeService {
	serviceLog := log.With("service", "RecipeService")
	return &recipeService{
		db:                   db,
		log:                  serviceLog,
		recipeRepo:           recipeRepo,
		recipeIngredientRepo: recipeIngredientRepo,
		recipeTagRepo:        recipeTagRepo,
		ingredientRepo:       ingredientRepo,
		tagRepo:              tagRepo,
		viewService:          viewService,
		mediaStore:           mediaStore,
		publicBaseURL:        strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
	}
}

func (rs *recipeService) Create(ctx context.Context, authorID uuid.UUID, draft RecipeDraft) (*RecipeView, error) {
	fields, imageBytes, imageFormat, err := rs.validateDraft(ctx, draft, true)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, apierr.Validation(fields)
	}

	recipe := &types.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        strings.TrimSpace(draft.Name),
		Text:        draft.Text,
		CookingTime: draft.CookingTime,
	}
	if err := rs.withUploadedImage(ctx, imageBytes, imageFormat, func(key, url string) error {
		recipe.ImageBucketKey = key
		recipe.ImageURL = url
		return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if _, err := rs.recipeRepo.Create(ctx, tx, []*types.Recipe{recipe}); err != nil {
				return fmt.Errorf("failed to create recipe: %w", err)
			}
			return rs.replaceChildren(ctx, tx, recipe.ID, draft)
		})
	}); err != nil {
		return nil, err
	}

	rs.log.Info("Recipe created", "recipe_id", recipe.ID.String(), "author_id", authorID.String())
	return rs.viewService.RecipeView(ctx, recipe, authorID)
}

func (rs *recipeService) Update(ctx context.Context, actorID, recipeID uuid.UUID, draft RecipeDraft) (*RecipeView, error) {
	recipe, err := rs.loadOwnedRecipe(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}

	fields, imageBytes, imageFormat, err := rs.validateDraft(ctx, draft, false)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, apierr.Validation(fields)
	}

	updates := map[string]any{
		"name":         strings.TrimSpace(draft.Name),
		"text":         draft.Text,
		"cooking_time": draft.CookingTime,
	}
	persist := func() error {
		return rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := rs.recipeRepo.Update(ctx, tx, recipeID, updates); err != nil {
				return fmt.Errorf("failed to update recipe: %w", err)
			}
			// Children are replaced wholesale on every update.
			return rs.replaceChildren(ctx, tx, recipeID, draft)
		})
	}

	oldImageKey := ""
	if imageBytes == nil {
		if err := persist(); err != nil {
			return nil, err
		}
	} else {
		oldImageKey = strings.TrimSpace(recipe.ImageBucketKey)
		if err := rs.withUploadedImage(ctx, imageBytes, imageFormat, func(key, url string) error {
			updates["image_bucket_key"] = key
			updates["image_url"] = url
			return persist()
		}); err != nil {
			return nil, err
		}
	}

	if oldImageKey != "" {
		if err := rs.mediaStore.Delete(ctx, oldImageKey); err != nil {
			rs.log.Warn("failed to delete old recipe image (ignored)", "key", oldImageKey, "error", err)
		}
	}

	updated, err := rs.loadRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return rs.viewService.RecipeView(ctx, updated, actorID)
}

func (rs *recipeService) Delete(ctx context.Context, actorID, recipeID uuid.UUID) error {
	recipe, err := rs.loadOwnedRecipe(ctx, actorID, recipeID)
	if err != nil {
		return err
	}

	// Ingredient lines, tags, favorites and cart rows go with the recipe
	// via FK cascades.
	if err := rs.recipeRepo.Delete(ctx, nil, recipeID); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if key := strings.TrimSpace(recipe.ImageBucketKey); key != "" {
		if err := rs.mediaStore.Delete(ctx, key); err != nil {
			rs.log.Warn("failed to delete recipe image (ignored)", "key", key, "error", err)
		}
	}
	rs.log.Info("Recipe deleted", "recipe_id", recipeID.String(), "author_id", actorID.String())
	return nil
}

func (rs *recipeService) Get(ctx context.Context, viewerID, recipeID uuid.UUID) (*RecipeView, error) {
	recipe, err := rs.loadRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return rs.viewService.RecipeView(ctx, recipe, viewerID)
}

func (rs *recipeService) List(ctx context.Context, viewerID uuid.UUID, params RecipeListParams) ([]*RecipeView, int64, error) {
	// The flag filters are scoped to the viewer; without one there is
	// nothing to match.
	if (params.Favorited || params.InCart) && viewerID == uuid.Nil {
		return []*RecipeView{}, 0, nil
	}

	filter := repos.RecipeFilter{
		TagSlugs: params.TagSlugs,
		AuthorID: params.AuthorID,
		Limit:    params.Limit,
		Offset:   params.Offset,
	}
	if params.Favorited {
		filter.FavoritedBy = viewerID
	}
	if params.InCart {
		filter.InCartOf = viewerID
	}

	recipes, err := rs.recipeRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	total, err := rs.recipeRepo.Count(ctx, nil, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	views, err := rs.viewService.RecipeViews(ctx, recipes, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (rs *recipeService) GetLink(ctx context.Context, recipeID uuid.UUID) (string, error) {
	if _, err := rs.loadRecipe(ctx, recipeID); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/recipes/%s/", rs.publicBaseURL, recipeID.String()), nil
}

// validateDraft collects every field failure before returning. The image,
// when present and decodable, comes back as raw bytes plus its format so
// writes never decode twice.
func (rs *recipeService) validateDraft(ctx context.Context, draft RecipeDraft, requireImage bool) (map[string][]string, []byte, string, error) {
	fields := map[string][]string{}

	if len(draft.Ingredients) == 0 {
		fields["ingredients"] = append(fields["ingredients"], "At least one ingredient is required.")
	} else {
		ids := make([]uuid.UUID, 0, len(draft.Ingredients))
		for _, ref := range draft.Ingredients {
			ids = append(ids, ref.ID)
		}
		existing, err := rs.ingredientRepo.GetByIDs(ctx, nil, ids)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to check ingredient ids: %w", err)
		}
		known := make(map[uuid.UUID]bool, len(existing))
		for _, ing := range existing {
			known[ing.ID] = true
		}
		seen := make(map[uuid.UUID]bool, len(draft.Ingredients))
		repeated := false
		for _, ref := range draft.Ingredients {
			if !known[ref.ID] {
				fields["ingredients"] = append(fields["ingredients"], fmt.Sprintf("Ingredient with id %s does not exist.", ref.ID))
			}
			if seen[ref.ID] {
				repeated = true
			}
			seen[ref.ID] = true
		}
		if repeated {
			fields["ingredients"] = append(fields["ingredients"], "Ingredients must not repeat.")
		}
	}

	if len(draft.Tags) > 0 {
		seenTags := make(map[uuid.UUID]bool, len(draft.Tags))
		repeated := false
		for _, id := range draft.Tags {
			if seenTags[id] {
				repeated = true
			}
			seenTags[id] = true
		}
		if repeated {
			fields["tags"] = append(fields["tags"], "Tags must not repeat.")
		}
		existing, err := rs.tagRepo.GetByIDs(ctx, nil, draft.Tags)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to check tag ids: %w", err)
		}
		known := make(map[uuid.UUID]bool, len(existing))
		for _, tag := range existing {
			known[tag.ID] = true
		}
		for id := range seenTags {
			if !known[id] {
				fields["tags"] = append(fields["tags"], fmt.Sprintf("Tag with id %s does not exist.", id))
			}
		}
	}

	for _, ref := range draft.Ingredients {
		if ref.Amount < 1 {
			fields["amount"] = append(fields["amount"], "Amount must be at least 1.")
			break
		}
	}

	if draft.CookingTime < 1 {
		fields["cooking_time"] = append(fields["cooking_time"], "Cooking time must be at least 1.")
	}

	var imageBytes []byte
	var imageFormat string
	if image := strings.TrimSpace(draft.Image); image == "" {
		if requireImage {
			fields["image"] = append(fields["image"], requiredFieldMessage)
		}
	} else {
		raw, format, err := decodeImageData(image)
		if err != nil {
			fields["image"] = append(fields["image"], "Upload a valid image.")
		} else {
			imageBytes, imageFormat = raw, format
		}
	}

	name := strings.TrimSpace(draft.Name)
	switch {
	case name == "":
		fields["name"] = append(fields["name"], requiredFieldMessage)
	case len(name) > 200:
		fields["name"] = append(fields["name"], "Ensure this field has no more than 200 characters.")
	}
	if strings.TrimSpace(draft.Text) == "" {
		fields["text"] = append(fields["text"], requiredFieldMessage)
	}

	return fields, imageBytes, imageFormat, nil
}

// withUploadedImage stores the image under a fresh key, hands the key and
// URL to write, and removes the object again when write fails. Uploads
// never run inside the database transaction, so a rollback cannot strand
// an object in the store.
func (rs *recipeService) withUploadedImage(ctx context.Context, imageBytes []byte, imageFormat string, write func(key, url string) error) error {
	key := fmt.Sprintf("recipes/%s.%s", uuid.New().String(), imageFileExt(imageFormat))
	url, err := rs.mediaStore.Upload(ctx, key, "image/"+imageFormat, imageBytes)
	if err != nil {
		return fmt.Errorf("failed to upload recipe image: %w", err)
	}
	if err := write(key, url); err != nil {
		if delErr := rs.mediaStore.Delete(ctx, key); delErr != nil {
			rs.log.Warn("failed to delete recipe image after failed write (ignored)", "key", key, "error", delErr)
		}
		return err
	}
	return nil
}

// replaceChildren swaps the full ingredient-line and tag sets inside the
// caller's transaction.
func (rs *recipeService) replaceChildren(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, draft RecipeDraft) error {
	lines := make([]*types.RecipeIngredient, 0, len(draft.Ingredients))
	for _, ref := range draft.Ingredients {
		lines = append(lines, &types.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: ref.ID,
			Amount:       ref.Amount,
		})
	}
	if err := rs.recipeIngredientRepo.ReplaceForRecipe(ctx, tx, recipeID, lines); err != nil {
		return fmt.Errorf("failed to write ingredient lines: %w", err)
	}
	if err := rs.recipeTagRepo.ReplaceForRecipe(ctx, tx, recipeID, draft.Tags); err != nil {
		return fmt.Errorf("failed to write recipe tags: %w", err)
	}
	return nil
}

func (rs *recipeService) loadRecipe(ctx context.Context, recipeID uuid.UUID) (*types.Recipe, error) {
	recipe, err := rs.recipeRepo.GetByID(ctx, nil, recipeID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, apierr.NotFound(notFoundMessage)
		}
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return recipe, nil
}

func (rs *recipeService) loadOwnedRecipe(ctx context.Context, actorID, recipeID uuid.UUID) (*types.Recipe, error) {
	recipe, err := rs.loadRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != actorID {
		return nil, apierr.PermissionDenied("You do not have permission to perform this action.")
	}
	return recipe, nil
}
