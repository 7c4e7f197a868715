package recipe

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/data/repos/testutil"
	types "github.com/platefeed/platefeed-backend/internal/domain"
)

func TestReplaceForRecipe_SwapsLineSet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "cook@example.com", "cook")
	recipe := testutil.SeedRecipe(t, ctx, tx, user.ID, "Borscht")
	beet := testutil.SeedIngredient(t, ctx, tx, "Beet", "pcs")
	onion := testutil.SeedIngredient(t, ctx, tx, "Onion", "pcs")

	first := []*types.RecipeIngredient{
		{ID: uuid.New(), RecipeID: recipe.ID, IngredientID: beet.ID, Amount: 2},
		{ID: uuid.New(), RecipeID: recipe.ID, IngredientID: onion.ID, Amount: 3},
	}
	if err := repo.ReplaceForRecipe(ctx, tx, recipe.ID, first); err != nil {
		t.Fatalf("first replace failed: %v", err)
	}

	second := []*types.RecipeIngredient{
		{ID: uuid.New(), RecipeID: recipe.ID, IngredientID: beet.ID, Amount: 5},
	}
	if err := repo.ReplaceForRecipe(ctx, tx, recipe.ID, second); err != nil {
		t.Fatalf("second replace failed: %v", err)
	}

	lines, err := repo.ListForRecipes(ctx, tx, []uuid.UUID{recipe.ID})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	// The old line set is gone wholesale, including the dropped onion row.
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %d", len(lines))
	}
	if lines[0].IngredientID != beet.ID || lines[0].Amount != 5 {
		t.Fatalf("unexpected line: ingredient=%s amount=%d", lines[0].IngredientID, lines[0].Amount)
	}
}

func TestReplaceForRecipe_ScopedToRecipe(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "cook@example.com", "cook")
	borscht := testutil.SeedRecipe(t, ctx, tx, user.ID, "Borscht")
	pancakes := testutil.SeedRecipe(t, ctx, tx, user.ID, "Pancakes")
	beet := testutil.SeedIngredient(t, ctx, tx, "Beet", "pcs")
	flour := testutil.SeedIngredient(t, ctx, tx, "Flour", "g")

	testutil.SeedRecipeIngredient(t, ctx, tx, pancakes.ID, flour.ID, 300)

	if err := repo.ReplaceForRecipe(ctx, tx, borscht.ID, []*types.RecipeIngredient{
		{ID: uuid.New(), RecipeID: borscht.ID, IngredientID: beet.ID, Amount: 2},
	}); err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if err := repo.ReplaceForRecipe(ctx, tx, borscht.ID, nil); err != nil {
		t.Fatalf("replace with empty set failed: %v", err)
	}

	lines, err := repo.ListForRecipes(ctx, tx, []uuid.UUID{borscht.ID, pancakes.ID})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	// Another recipe's lines survive the swap.
	if len(lines) != 1 || lines[0].RecipeID != pancakes.ID {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestSumForUserCart_GroupsAcrossRecipes(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))

	user := testutil.SeedUser(t, ctx, tx, "cook@example.com", "cook")
	sugar := testutil.SeedIngredient(t, ctx, tx, "Sugar", "g")
	flour := testutil.SeedIngredient(t, ctx, tx, "Flour", "g")

	cake := testutil.SeedRecipe(t, ctx, tx, user.ID, "Cake")
	pie := testutil.SeedRecipe(t, ctx, tx, user.ID, "Pie")
	testutil.SeedRecipeIngredient(t, ctx, tx, cake.ID, sugar.ID, 100)
	testutil.SeedRecipeIngredient(t, ctx, tx, pie.ID, sugar.ID, 50)
	testutil.SeedRecipeIngredient(t, ctx, tx, pie.ID, flour.ID, 200)

	testutil.SeedShoppingCartItem(t, ctx, tx, user.ID, cake.ID)
	testutil.SeedShoppingCartItem(t, ctx, tx, user.ID, pie.ID)

	// A recipe outside the cart must not contribute.
	syrniki := testutil.SeedRecipe(t, ctx, tx, user.ID, "Syrniki")
	testutil.SeedRecipeIngredient(t, ctx, tx, syrniki.ID, sugar.ID, 999)

	totals, err := repo.SumForUserCart(ctx, tx, user.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	want := []IngredientTotal{
		{Name: "Flour", MeasurementUnit: "g", Total: 200},
		{Name: "Sugar", MeasurementUnit: "g", Total: 150},
	}
	if !reflect.DeepEqual(totals, want) {
		t.Fatalf("unexpected totals:\ngot:  %v\nwant: %v", totals, want)
	}
}

func TestSumForUserCart_ScopedToUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewRecipeIngredientRepo(db, testutil.Logger(t))

	cook := testutil.SeedUser(t, ctx, tx, "cook@example.com", "cook")
	other := testutil.SeedUser(t, ctx, tx, "other@example.com", "other")
	sugar := testutil.SeedIngredient(t, ctx, tx, "Sugar", "g")

	cake := testutil.SeedRecipe(t, ctx, tx, cook.ID, "Cake")
	testutil.SeedRecipeIngredient(t, ctx, tx, cake.ID, sugar.ID, 100)
	testutil.SeedShoppingCartItem(t, ctx, tx, cook.ID, cake.ID)

	totals, err := repo.SumForUserCart(ctx, tx, other.ID)
	if err != nil {
		t.Fatalf("sum failed: %v", err)
	}
	if len(totals) != 0 {
		t.Fatalf("expected an empty cart, got %v", totals)
	}
}
