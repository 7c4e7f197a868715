package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	types "github.com/platefeed/platefeed-backend/internal/domain"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

// UserView is the public profile shape. IsSubscribed reflects whether the
// viewer follows this user and is always false for anonymous viewers.
type UserView struct {
	Email        string    `json:"email"`
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
	Avatar       *string   `json:"avatar"`
}

// RegisteredUserView is the registration response; it omits the
// viewer-dependent fields.
type RegisteredUserView struct {
	Email     string    `json:"email"`
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

type RecipeShortView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type RecipeIngredientView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeView struct {
	ID               uuid.UUID               `json:"id"`
	Author           *UserView               `json:"author"`
	Ingredients      []*RecipeIngredientView `json:"ingredients"`
	IsFavorited      bool                    `json:"is_favorited"`
	IsInShoppingCart bool                    `json:"is_in_shopping_cart"`
	Name             string                  `json:"name"`
	Image            string                  `json:"image"`
	Text             string                  `json:"text"`
	CookingTime      int                     `json:"cooking_time"`
}

// AuthorView is a user view extended with the author's latest recipes.
// Recipes is capped by recipes_limit while RecipesCount stays uncapped.
type AuthorView struct {
	UserView
	Recipes      []*RecipeShortView `json:"recipes"`
	RecipesCount int64              `json:"recipes_count"`
}

type IngredientView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

type TagView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

// ViewService assembles the read models served by the API. Builders batch
// their lookups (subscription set, favorite/cart sets, ingredient lines)
// so a page of results costs a fixed number of queries.
type ViewService interface {
	UserView(ctx context.Context, u *types.User, viewerID uuid.UUID) (*UserView, error)
	UserViews(ctx context.Context, users []*types.User, viewerID uuid.UUID) ([]*UserView, error)
	RecipeShortView(r *types.Recipe) *RecipeShortView
	RecipeView(ctx context.Context, r *types.Recipe, viewerID uuid.UUID) (*RecipeView, error)
	RecipeViews(ctx context.Context, recipes []*types.Recipe, viewerID uuid.UUID) ([]*RecipeView, error)
	AuthorView(ctx context.Context, author *types.User, viewerID uuid.UUID, recipesLimit int) (*AuthorView, error)
	AuthorViews(ctx context.Context, authors []*types.User, viewerID uuid.UUID, recipesLimit int) ([]*AuthorView, error)
}

type viewService struct {
	log                  *logger.Logger
	userRepo             repos.UserRepo
	subscriptionRepo     repos.SubscriptionRepo
	recipeRepo           repos.RecipeRepo
	recipeIngredientRepo repos.RecipeIngredientRepo
	membershipRepo       repos.MembershipRepo
}

func NewViewService(
	log *logger.Logger,
	userRepo repos.UserRepo,
	subscriptionRepo repos.SubscriptionRepo,
	recipeRepo repos.RecipeRepo,
	recipeIngredientRepo repos.RecipeIngredientRepo,
	membershipRepo repos.MembershipRepo,
) ViewService {
	serviceLog := log.With("service", "ViewService")
	return &viewService{
		log:                  serviceLog,
		userRepo:             userRepo,
		subscriptionRepo:     subscriptionRepo,
		recipeRepo:           recipeRepo,
		recipeIngredientRepo: recipeIngredientRepo,
		membershipRepo:       membershipRepo,
	}
}

func (vs *viewService) UserView(ctx context.Context, u *types.User, viewerID uuid.UUID) (*UserView, error) {
	views, err := vs.UserViews(ctx, []*types.User{u}, viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (vs *viewService) UserViews(ctx context.Context, users []*types.User, viewerID uuid.UUID) ([]*UserView, error) {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	subscribed := map[uuid.UUID]bool{}
	if viewerID != uuid.Nil && len(ids) > 0 {
		var err error
		subscribed, err = vs.subscriptionRepo.AuthorIDSet(ctx, nil, viewerID, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load subscription set: %w", err)
		}
	}

	out := make([]*UserView, 0, len(users))
	for _, u := range users {
		out = append(out, &UserView{
			Email:        u.Email,
			ID:           u.ID,
			Username:     u.Username,
			FirstName:    u.FirstName,
			LastName:     u.LastName,
			IsSubscribed: subscribed[u.ID],
			Avatar:       avatarURLPtr(u),
		})
	}
	return out, nil
}

func (vs *viewService) RecipeShortView(r *types.Recipe) *RecipeShortView {
	return &RecipeShortView{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

func (vs *viewService) RecipeView(ctx context.Context, r *types.Recipe, viewerID uuid.UUID) (*RecipeView, error) {
	views, err := vs.RecipeViews(ctx, []*types.Recipe{r}, viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (vs *viewService) RecipeViews(ctx context.Context, recipes []*types.Recipe, viewerID uuid.UUID) ([]*RecipeView, error) {
	if len(recipes) == 0 {
		return []*RecipeView{}, nil
	}

	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDSeen := make(map[uuid.UUID]bool, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		if !authorIDSeen[r.AuthorID] {
			authorIDSeen[r.AuthorID] = true
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	authors, err := vs.userRepo.GetByIDs(ctx, nil, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe authors: %w", err)
	}
	authorViews, err := vs.UserViews(ctx, authors, viewerID)
	if err != nil {
		return nil, err
	}
	authorViewByID := make(map[uuid.UUID]*UserView, len(authorViews))
	for _, av := range authorViews {
		authorViewByID[av.ID] = av
	}

	lines, err := vs.recipeIngredientRepo.ListForRecipes(ctx, nil, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient lines: %w", err)
	}
	linesByRecipe := make(map[uuid.UUID][]*types.RecipeIngredient, len(recipes))
	for _, ln := range lines {
		linesByRecipe[ln.RecipeID] = append(linesByRecipe[ln.RecipeID], ln)
	}

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	if viewerID != uuid.Nil {
		favorited, err = vs.membershipRepo.TargetIDSet(ctx, nil, repos.MembershipFavorite, viewerID, recipeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load favorite set: %w", err)
		}
		inCart, err = vs.membershipRepo.TargetIDSet(ctx, nil, repos.MembershipShoppingCart, viewerID, recipeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load shopping cart set: %w", err)
		}
	}

	out := make([]*RecipeView, 0, len(recipes))
	for _, r := range recipes {
		ingredients := make([]*RecipeIngredientView, 0, len(linesByRecipe[r.ID]))
		for _, ln := range linesByRecipe[r.ID] {
			if ln.Ingredient == nil {
				continue
			}
			ingredients = append(ingredients, &RecipeIngredientView{
				ID:              ln.IngredientID,
				Name:            ln.Ingredient.Name,
				MeasurementUnit: ln.Ingredient.MeasurementUnit,
				Amount:          ln.Amount,
			})
		}
		out = append(out, &RecipeView{
			ID:               r.ID,
			Author:           authorViewByID[r.AuthorID],
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.ImageURL,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return out, nil
}

func (vs *viewService) AuthorView(ctx context.Context, author *types.User, viewerID uuid.UUID, recipesLimit int) (*AuthorView, error) {
	views, err := vs.AuthorViews(ctx, []*types.User{author}, viewerID, recipesLimit)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (vs *viewService) AuthorViews(ctx context.Context, authors []*types.User, viewerID uuid.UUID, recipesLimit int) ([]*AuthorView, error) {
	if len(authors) == 0 {
		return []*AuthorView{}, nil
	}

	base, err := vs.UserViews(ctx, authors, viewerID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		authorIDs = append(authorIDs, a.ID)
	}
	counts, err := vs.recipeRepo.CountByAuthors(ctx, nil, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count author recipes: %w", err)
	}

	out := make([]*AuthorView, 0, len(authors))
	for i, a := range authors {
		recipes, err := vs.recipeRepo.ListByAuthor(ctx, nil, a.ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load author recipes: %w", err)
		}
		shorts := make([]*RecipeShortView, 0, len(recipes))
		for _, r := range recipes {
			shorts = append(shorts, vs.RecipeShortView(r))
		}
		out = append(out, &AuthorView{
			UserView:     *base[i],
			Recipes:      shorts,
			RecipesCount: counts[a.ID],
		})
	}
	return out, nil
}

func avatarURLPtr(u *types.User) *string {
	if strings.TrimSpace(u.AvatarURL) == "" {
		return nil
	}
	url := u.AvatarURL
	return &url
}
