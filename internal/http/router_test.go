package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/http/handlers"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/services"
)

type fakeCatalogService struct {
	tags []*services.TagView
}

func (f *fakeCatalogService) Ingredients(_ context.Context, _ string) ([]*services.IngredientView, error) {
	return []*services.IngredientView{}, nil
}

func (f *fakeCatalogService) Ingredient(_ context.Context, _ uuid.UUID) (*services.IngredientView, error) {
	return nil, apierr.NotFound("Not found.")
}

func (f *fakeCatalogService) Tags(_ context.Context) ([]*services.TagView, error) {
	return f.tags, nil
}

func (f *fakeCatalogService) Tag(_ context.Context, _ uuid.UUID) (*services.TagView, error) {
	return nil, apierr.NotFound("Not found.")
}

type fakeRecipeService struct {
	views []*services.RecipeView
}

func (f *fakeRecipeService) Create(_ context.Context, _ uuid.UUID, _ services.RecipeDraft) (*services.RecipeView, error) {
	return nil, apierr.NotFound("Not found.")
}

func (f *fakeRecipeService) Update(_ context.Context, _, _ uuid.UUID, _ services.RecipeDraft) (*services.RecipeView, error) {
	return nil, apierr.NotFound("Not found.")
}

func (f *fakeRecipeService) Delete(_ context.Context, _, _ uuid.UUID) error {
	return apierr.NotFound("Not found.")
}

func (f *fakeRecipeService) Get(_ context.Context, _, _ uuid.UUID) (*services.RecipeView, error) {
	return nil, apierr.NotFound("Not found.")
}

func (f *fakeRecipeService) List(_ context.Context, _ uuid.UUID, _ services.RecipeListParams) ([]*services.RecipeView, int64, error) {
	return f.views, int64(len(f.views)), nil
}

func (f *fakeRecipeService) GetLink(_ context.Context, _ uuid.UUID) (string, error) {
	return "", apierr.NotFound("Not found.")
}

type fakeShoppingListService struct{}

func (f *fakeShoppingListService) Download(_ context.Context, _ uuid.UUID) (string, []byte, error) {
	return "", nil, apierr.BusinessRule("Shopping cart is empty.")
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := newTestLogger(t)

	tag := &services.TagView{ID: uuid.New(), Name: "Lunch", Color: "#49B64E", Slug: "lunch"}
	catalog := &fakeCatalogService{tags: []*services.TagView{tag}}

	return NewRouter(RouterConfig{
		Log:               log,
		TagHandler:        handlers.NewTagHandler(log, catalog),
		IngredientHandler: handlers.NewIngredientHandler(log, catalog),
		RecipeHandler:     handlers.NewRecipeHandler(log, &fakeRecipeService{}, nil, &fakeShoppingListService{}, 6),
	})
}

func TestRouter_UnknownRouteIsNotFound(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/api/nope/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, nethttp.StatusNotFound)
	}
	if want := `{"errors":"Not found."}`; rec.Body.String() != want {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestRouter_WrongMethodIsMethodNotAllowed(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodPost, "/api/tags/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusMethodNotAllowed {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, nethttp.StatusMethodNotAllowed)
	}
	if want := `{"errors":"Method \"POST\" not allowed."}`; rec.Body.String() != want {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestRouter_TagRoutes(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/api/tags/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var tags []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &tags); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(tags) != 1 || tags[0]["slug"] != "lunch" {
		t.Fatalf("unexpected payload: %v", tags)
	}

	req = httptest.NewRequest(nethttp.MethodGet, "/api/tags/"+uuid.NewString()+"/", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, nethttp.StatusNotFound)
	}
}

func TestRouter_RecipeListIsOpenToAnonymous(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/api/recipes/?page=1&limit=6", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var page struct {
		Count    int64 `json:"count"`
		Next     any   `json:"next"`
		Previous any   `json:"previous"`
		Results  []any `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if page.Count != 0 || len(page.Results) != 0 || page.Next != nil || page.Previous != nil {
		t.Fatalf("unexpected page: %s", rec.Body.String())
	}
}

func TestRouter_StaticRoutesWinOverParams(t *testing.T) {
	t.Parallel()
	r := newTestRouter(t)

	// download_shopping_cart must not be captured by the :id route.
	req := httptest.NewRequest(nethttp.MethodGet, "/api/recipes/download_shopping_cart/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusBadRequest {
		t.Fatalf("unexpected status: got=%d body=%s", rec.Code, rec.Body.String())
	}
	if want := `{"errors":"Shopping cart is empty."}`; rec.Body.String() != want {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}
