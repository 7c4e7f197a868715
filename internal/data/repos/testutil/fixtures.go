package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/platefeed/platefeed-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  username,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedIngredient(tb testing.TB, ctx context.Context, tx *gorm.DB, name, measurementUnit string) *types.Ingredient {
	tb.Helper()
	ing := &types.Ingredient{
		ID:              uuid.New(),
		Name:            name,
		MeasurementUnit: measurementUnit,
	}
	if err := tx.WithContext(ctx).Create(ing).Error; err != nil {
		tb.Fatalf("seed ingredient: %v", err)
	}
	return ing
}

func SeedTag(tb testing.TB, ctx context.Context, tx *gorm.DB, name, color, slug string) *types.Tag {
	tb.Helper()
	t := &types.Tag{
		ID:    uuid.New(),
		Name:  name,
		Color: color,
		Slug:  slug,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed tag: %v", err)
	}
	return t
}

func SeedRecipe(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID uuid.UUID, name string) *types.Recipe {
	tb.Helper()
	r := &types.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        name,
		Text:        "steps",
		CookingTime: 10,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed recipe: %v", err)
	}
	return r
}

func SeedRecipeIngredient(tb testing.TB, ctx context.Context, tx *gorm.DB, recipeID, ingredientID uuid.UUID, amount int) *types.RecipeIngredient {
	tb.Helper()
	ri := &types.RecipeIngredient{
		ID:           uuid.New(),
		RecipeID:     recipeID,
		IngredientID: ingredientID,
		Amount:       amount,
	}
	if err := tx.WithContext(ctx).Create(ri).Error; err != nil {
		tb.Fatalf("seed recipe ingredient: %v", err)
	}
	return ri
}

func SeedRecipeTag(tb testing.TB, ctx context.Context, tx *gorm.DB, recipeID, tagID uuid.UUID) *types.RecipeTag {
	tb.Helper()
	rt := &types.RecipeTag{
		ID:       uuid.New(),
		RecipeID: recipeID,
		TagID:    tagID,
	}
	if err := tx.WithContext(ctx).Create(rt).Error; err != nil {
		tb.Fatalf("seed recipe tag: %v", err)
	}
	return rt
}

func SeedFavorite(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID) *types.Favorite {
	tb.Helper()
	f := &types.Favorite{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipeID,
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed favorite: %v", err)
	}
	return f
}

func SeedShoppingCartItem(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, recipeID uuid.UUID) *types.ShoppingCartItem {
	tb.Helper()
	item := &types.ShoppingCartItem{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipeID,
	}
	if err := tx.WithContext(ctx).Create(item).Error; err != nil {
		tb.Fatalf("seed shopping cart item: %v", err)
	}
	return item
}

func SeedSubscription(tb testing.TB, ctx context.Context, tx *gorm.DB, followerID, authorID uuid.UUID) *types.Subscription {
	tb.Helper()
	s := &types.Subscription{
		ID:         uuid.New(),
		FollowerID: followerID,
		AuthorID:   authorID,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subscription: %v", err)
	}
	return s
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
