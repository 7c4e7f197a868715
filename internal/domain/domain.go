package domain

import (
	"github.com/platefeed/platefeed-backend/internal/domain/catalog"
	"github.com/platefeed/platefeed-backend/internal/domain/recipe"
	"github.com/platefeed/platefeed-backend/internal/domain/user"
)

type User = user.User
type Subscription = user.Subscription

type Ingredient = catalog.Ingredient
type Tag = catalog.Tag

type Recipe = recipe.Recipe
type RecipeIngredient = recipe.RecipeIngredient
type RecipeTag = recipe.RecipeTag
type Favorite = recipe.Favorite
type ShoppingCartItem = recipe.ShoppingCartItem
