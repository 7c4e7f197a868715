package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/platefeed/platefeed-backend/internal/http/response"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/services"
)

type TagHandler struct {
	log            *logger.Logger
	catalogService services.CatalogService
}

func NewTagHandler(log *logger.Logger, catalogService services.CatalogService) *TagHandler {
	handlerLogger := log.With("handler", "TagHandler")
	return &TagHandler{log: handlerLogger, catalogService: catalogService}
}

// GET /api/tags/
func (th *TagHandler) List(c *gin.Context) {
	views, err := th.catalogService.Tags(c.Request.Context())
	if err != nil {
		response.Fail(c, th.log, err)
		return
	}
	response.OK(c, views)
}

// GET /api/tags/:id/
func (th *TagHandler) Get(c *gin.Context) {
	tagID, ok := uuidParam(c, "id")
	if !ok {
		response.Fail(c, th.log, apierr.NotFound(notFoundMessage))
		return
	}
	view, err := th.catalogService.Tag(c.Request.Context(), tagID)
	if err != nil {
		response.Fail(c, th.log, err)
		return
	}
	response.OK(c, view)
}
