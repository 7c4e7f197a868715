package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

const shoppingListFilename = "shopping_list.txt"

// ShoppingListService renders the user's aggregated shopping list. The
// grouped sums come straight from the database.
type ShoppingListService interface {
	Download(ctx context.Context, userID uuid.UUID) (string, []byte, error)
}

type shoppingListService struct {
	log                  *logger.Logger
	recipeIngredientRepo repos.RecipeIngredientRepo
}

func NewShoppingListService(log *logger.Logger, recipeIngredientRepo repos.RecipeIngredientRepo) ShoppingListService {
	serviceLog := log.With("service", "ShoppingListService")
	return &shoppingListService{
		log:                  serviceLog,
		recipeIngredientRepo: recipeIngredientRepo,
	}
}

func (sls *shoppingListService) Download(ctx context.Context, userID uuid.UUID) (string, []byte, error) {
	totals, err := sls.recipeIngredientRepo.SumForUserCart(ctx, nil, userID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to aggregate shopping cart: %w", err)
	}
	if len(totals) == 0 {
		return "", nil, apierr.BusinessRule("Shopping cart is empty.")
	}
	return shoppingListFilename, renderShoppingList(totals, time.Now()), nil
}

// renderShoppingList lays the document out as a header, one line per
// (name, unit) group and a generation timestamp.
func renderShoppingList(totals []repos.IngredientTotal, now time.Time) []byte {
	var b strings.Builder
	b.WriteString("Shopping list:\n\n")
	for _, t := range totals {
		fmt.Fprintf(&b, "%s (%s) — %d\n", t.Name, t.MeasurementUnit, t.Total)
	}
	fmt.Fprintf(&b, "\nGenerated: %s\n", now.Format("02-01-2006 15:04"))
	return []byte(b.String())
}
