package response

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

// ErrorsEnvelope is the failure body for 400/403/404/405 responses. Errors
// holds the validation field map for validation failures and a single
// message string for everything else.
type ErrorsEnvelope struct {
	Errors any `json:"errors"`
}

// DetailEnvelope is the failure body for 401 responses only.
type DetailEnvelope struct {
	Detail string `json:"detail"`
}

// Page is the paginated list body. Next and Previous are absolute URLs of
// the adjacent pages, null at either end.
type Page struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// Fail writes the one failure body for err and nothing else. Typed errors
// map by kind; auth failures alone use the detail envelope. Anything
// untyped is a 500 with a neutral body, and the cause stays in the server
// log.
func Fail(c *gin.Context, log *logger.Logger, err error) {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case apierr.KindValidation:
			c.JSON(apiErr.HTTPStatus(), ErrorsEnvelope{Errors: apiErr.Fields})
		case apierr.KindAuthRequired:
			c.JSON(apiErr.HTTPStatus(), DetailEnvelope{Detail: apiErr.Message})
		default:
			c.JSON(apiErr.HTTPStatus(), ErrorsEnvelope{Errors: apiErr.Message})
		}
		return
	}
	if log != nil {
		log.Error("Unhandled error", "error", err)
	}
	c.JSON(http.StatusInternalServerError, ErrorsEnvelope{Errors: "internal server error"})
}

// AbortFail is Fail for middleware chains.
func AbortFail(c *gin.Context, log *logger.Logger, err error) {
	Fail(c, log, err)
	c.Abort()
}

func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func Created(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// NewPage wraps results in the list envelope. page is 1-based and limit
// must be positive; both are taken as already clamped by the caller.
func NewPage(c *gin.Context, page, limit int, count int64, results any) Page {
	p := Page{Count: count, Results: results}
	totalPages := (count + int64(limit) - 1) / int64(limit)
	if int64(page) < totalPages {
		next := pageURL(c, page+1)
		p.Next = &next
	}
	if page > 1 {
		prev := pageURL(c, page-1)
		p.Previous = &prev
	}
	return p
}

// pageURL rebuilds the request URL with the page query parameter swapped
// out, keeping every other filter intact.
func pageURL(c *gin.Context, page int) string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, u.RequestURI())
}
