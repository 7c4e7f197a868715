package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/platefeed/platefeed-backend/internal/http/response"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/services"
)

type IngredientHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewIngredientHandler(log *logger.Logger, catalogService services.CatalogService) *IngredientHandler {
	handlerLogger := log.With("handler", "IngredientHandler")
	return &IngredientHandler{log: handlerLogger, catalogService: catalogService}
}

// GET /api/ingredients/?name=<prefix>
// The list is unpaginated; name filters by case-insensitive prefix.
func (ih *IngredientHandler) List(c *gin.Context) {
	views, err := ih.catalogService.Ingredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		response.Fail(c, ih.log, err)
		return
	}
	response.OK(c, views)
}

// GET /api/ingredients/:id/
func (ih *IngredientHandler) Get(c *gin.Context) {
	ingredientID, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, ih.log, apierr.NotFound(notFoundMessage))
		return
	}
	view, err := ih.catalogService.Ingredient(c.Request.Context(), ingredientID)
	if err != nil {
		response.Fail(c, ih.log, err)
		return
	}
	response.OK(c, view)
}
