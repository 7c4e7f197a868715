package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	"github.com/platefeed/platefeed-backend/internal/http/response"
	"github.com/platefeed/platefeed-backend/internal/pkg/ctxutil"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/services"
)

type UserHandler struct {
	log               *logger.Logger
	userService       services.UserService
	membershipService services.MembershipService
	pageSize          int
}

func NewUserHandler(log *logger.Logger, userService services.UserService, membershipService services.MembershipService, pageSize int) *UserHandler {
	handlerLogger := log.With("handler", "UserHandler")
	return &UserHandler{
		log:               handlerLogger,
		userService:       userService,
		membershipService: membershipService,
		pageSize:          pageSize,
	}
}

// POST /api/users/
// body: { "email": "...", "username": "...", "first_name": "...", "last_name": "...", "password": "..." }
func (uh *UserHandler) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, uh.log, apierr.BusinessRule(malformedBodyMessage))
		return
	}
	view, err := uh.userService.Register(c.Request.Context(), input)
	if err != nil {
		response.Fail(c, uh.log, err)
		return
	}
	response.Created(c, view)
}

// GET /api/users/
func (uh *UserHandler) List(c *gin.Context) {
	viewerID := ctxutil.UserID(c.Request.Context())
	page, limit, offset := pageParams(c, uh.pageSize)
	views, total, err := uh.userService.List(c.Request.Context(), viewerID, limit, offset)
	if err != nil {
		response.Fail(c, uh.log, err)
		return
	}
	response.OK(c, response.NewPage(c, page, limit, total, views))
}

// GET /api/users/:id/
func (uh *UserHandler) Get(c *gin.Context) {
	userID, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, uh.log, apierr.NotFound(notFoundMessage))
		return
	}
	viewerID := ctxutil.UserID(c.Request.Context())
	view, err := uh.userService.Get(c.Request.Context(), viewerID, userID)
	if err != nil {
		response.Fail(c, uh.log, err)
		return
	}
	response.OK(c, view)
}

// GET /api/users/me/
func (uh *UserHandler) Me(c *gin.Context) {
	view, err := uh.userService.Me(c.Request.Context(), ctxutil.UserID(c.Request.Context()))
	if err != nil {
		response.Fail(c, uh.log, err)
		return
	}
	response.OK(c, view)
}

// POST /api/users/set_password/
// body: { "current_password": "...", "new_password": "..." }
func (uh *UserHandler) SetPassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, uh.log, apierr.BusinessRule(malformedBodyMessage))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	if err := uh.userService.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		response.Fail(c, uh.log, err)
		return
	}
	response.NoContent(c)
}

// PUT /api/users/me/avatar/
// body: { "avatar": "data:image/png;base64,..." }
func (uh *UserHandler) SetAvatar(c *gin.Context) {
	var req struct {
		Avatar string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, uh.log, apierr.BusinessRule(malformedBodyMessage))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	view, err := uh.userService.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		response.Fail(c, uh.log, err)
		return
	}
	response.OK(c, view)
}

// DELETE /api/users/me/avatar/
func (uh *UserHandler) DeleteAvatar(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	if err := uh.userService.DeleteAvatar(c.Request.Context(), userID); err != nil {
		response.Fail(c, uh.log, err)
		return
	}
	response.NoContent(c)
}

// GET /api/users/subscriptions/
func (uh *UserHandler) Subscriptions(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	page, limit, offset := pageParams(c, uh.pageSize)
	recipesLimit := intQuery(c, "recipes_limit", 0)
	views, total, err := uh.userService.Subscriptions(c.Request.Context(), userID, limit, offset, recipesLimit)
	if err != nil {
		response.Fail(c, uh.log, err)
		return
	}
	response.OK(c, response.NewPage(c, page, limit, total, views))
}

// POST /api/users/:id/subscribe/
func (uh *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, uh.log, apierr.NotFound(notFoundMessage))
		return
	}
	actorID := ctxutil.UserID(c.Request.Context())
	recipesLimit := intQuery(c, "recipes_limit", 0)
	view, err := uh.membershipService.Add(c.Request.Context(), repos.MembershipSubscription, actorID, authorID, recipesLimit)
	if err != nil {
		response.Fail(c, uh.log, err)
		return
	}
	response.Created(c, view)
}

// DELETE /api/users/:id/subscribe/
func (uh *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, uh.log, apierr.NotFound(notFoundMessage))
		return
	}
	actorID := ctxutil.UserID(c.Request.Context())
	if err := uh.membershipService.Remove(c.Request.Context(), repos.MembershipSubscription, actorID, authorID); err != nil {
		response.Fail(c, uh.log, err)
		return
	}
	response.NoContent(c)
}
