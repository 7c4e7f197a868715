package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	"github.com/platefeed/platefeed-backend/internal/http/response"
	"github.com/platefeed/platefeed-backend/internal/pkg/ctxutil"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/services"
)

type RecipeHandler struct {
	log                 *logger.Logger
	recipeService       services.RecipeService
	membershipService   services.MembershipService
	shoppingListService services.ShoppingListService
	pageSize            int
}

func NewRecipeHandler(log *logger.Logger, recipeService services.RecipeService, membershipService services.MembershipService, shoppingListService services.ShoppingListService, pageSize int) *RecipeHandler {
	handlerLogger := log.With("handler", "RecipeHandler")
	return &RecipeHandler{
		log:                 handlerLogger,
		recipeService:       recipeService,
		membershipService:   membershipService,
		shoppingListService: shoppingListService,
		pageSize:            pageSize,
	}
}

// GET /api/recipes/
// filters: tags (repeatable slug), author, is_favorited=1, is_in_shopping_cart=1
func (rh *RecipeHandler) List(c *gin.Context) {
	viewerID := ctxutil.UserID(c.Request.Context())
	page, limit, offset := pageParams(c, rh.pageSize)

	params := services.RecipeListParams{
		TagSlugs: c.QueryArray("tags"),
		Limit:    limit,
		Offset:   offset,
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			// An unparseable author id matches nothing.
			response.OK(c, response.NewPage(c, page, limit, 0, []*services.RecipeView{}))
			return
		}
		params.AuthorID = authorID
	}
	params.Favorited = boolQuery(c, "is_favorited")
	params.InCart = boolQuery(c, "is_in_shopping_cart")

	views, total, err := rh.recipeService.List(c.Request.Context(), viewerID, params)
	if err != nil {
		response.Fail(c, rh.log, err)
		return
	}
	response.OK(c, response.NewPage(c, page, limit, total, views))
}

// POST /api/recipes/
func (rh *RecipeHandler) Create(c *gin.Context) {
	var draft services.RecipeDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Fail(c, rh.log, apierr.BusinessRule(malformedBodyMessage))
		return
	}
	authorID := ctxutil.UserID(c.Request.Context())
	view, err := rh.recipeService.Create(c.Request.Context(), authorID, draft)
	if err != nil {
		response.Fail(c, rh.log, err)
		return
	}
	response.Created(c, view)
}

// GET /api/recipes/:id/
func (rh *RecipeHandler) Get(c *gin.Context) {
	recipeID, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, rh.log, apierr.NotFound(notFoundMessage))
		return
	}
	viewerID := ctxutil.UserID(c.Request.Context())
	view, err := rh.recipeService.Get(c.Request.Context(), viewerID, recipeID)
	if err != nil {
		response.Fail(c, rh.log, err)
		return
	}
	response.OK(c, view)
}

// PATCH /api/recipes/:id/
func (rh *RecipeHandler) Update(c *gin.Context) {
	recipeID, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, rh.log, apierr.NotFound(notFoundMessage))
		return
	}
	var draft services.RecipeDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Fail(c, rh.log, apierr.BusinessRule(malformedBodyMessage))
		return
	}
	actorID := ctxutil.UserID(c.Request.Context())
	view, err := rh.recipeService.Update(c.Request.Context(), actorID, recipeID, draft)
	if err != nil {
		response.Fail(c, rh.log, err)
		return
	}
	response.OK(c, view)
}

// DELETE /api/recipes/:id/
func (rh *RecipeHandler) Delete(c *gin.Context) {
	recipeID, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, rh.log, apierr.NotFound(notFoundMessage))
		return
	}
	actorID := ctxutil.UserID(c.Request.Context())
	if err := rh.recipeService.Delete(c.Request.Context(), actorID, recipeID); err != nil {
		response.Fail(c, rh.log, err)
		return
	}
	response.NoContent(c)
}

// GET /api/recipes/:id/get-link/
func (rh *RecipeHandler) GetLink(c *gin.Context) {
	recipeID, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, rh.log, apierr.NotFound(notFoundMessage))
		return
	}
	link, err := rh.recipeService.GetLink(c.Request.Context(), recipeID)
	if err != nil {
		response.Fail(c, rh.log, err)
		return
	}
	response.OK(c, gin.H{"short-link": link})
}

// POST /api/recipes/:id/favorite/
func (rh *RecipeHandler) AddFavorite(c *gin.Context) {
	rh.addMembership(c, repos.MembershipFavorite)
}

// DELETE /api/recipes/:id/favorite/
func (rh *RecipeHandler) RemoveFavorite(c *gin.Context) {
	rh.removeMembership(c, repos.MembershipFavorite)
}

// POST /api/recipes/:id/shopping_cart/
func (rh *RecipeHandler) AddToCart(c *gin.Context) {
	rh.addMembership(c, repos.MembershipShoppingCart)
}

// DELETE /api/recipes/:id/shopping_cart/
func (rh *RecipeHandler) RemoveFromCart(c *gin.Context) {
	rh.removeMembership(c, repos.MembershipShoppingCart)
}

// GET /api/recipes/download_shopping_cart/
func (rh *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	filename, data, err := rh.shoppingListService.Download(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, rh.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}

func (rh *RecipeHandler) addMembership(c *gin.Context, kind repos.MembershipKind) {
	recipeID, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, rh.log, apierr.NotFound(notFoundMessage))
		return
	}
	actorID := ctxutil.UserID(c.Request.Context())
	view, err := rh.membershipService.Add(c.Request.Context(), kind, actorID, recipeID, 0)
	if err != nil {
		response.Fail(c, rh.log, err)
		return
	}
	response.Created(c, view)
}

func (rh *RecipeHandler) removeMembership(c *gin.Context, kind repos.MembershipKind) {
	recipeID, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, rh.log, apierr.NotFound(notFoundMessage))
		return
	}
	actorID := ctxutil.UserID(c.Request.Context())
	if err := rh.membershipService.Remove(c.Request.Context(), kind, actorID, recipeID); err != nil {
		response.Fail(c, rh.log, err)
		return
	}
	response.NoContent(c)
}

func boolQuery(c *gin.Context, name string) bool {
	v := c.Query(name)
	return v == "1" || strings.EqualFold(v, "true")
}
