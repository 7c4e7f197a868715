package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	malformedBodyMessage = "Malformed request body."
	notFoundMessage      = "Not found."
)

// intQuery parses a positive integer query parameter, falling back to
// def when the value is absent or unusable.
func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// pageParams reads the page/limit query parameters. page is 1-based and
// limit falls back to the handler's configured page size.
func pageParams(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page = intQuery(c, "page", 1)
	limit = intQuery(c, "limit", defaultLimit)
	if limit < 1 {
		limit = 1
	}
	offset = (page - 1) * limit
	return page, limit, offset
}

// uuidParam parses a path parameter as a UUID. Unparseable ids address
// nothing, so callers answer 404.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}
