package handlers

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	"github.com/platefeed/platefeed-backend/internal/pkg/ctxutil"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/services"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

// withUser injects an authenticated caller the way the auth middleware
// would, so handlers under test see a real identity.
func withUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID, TokenID: "jti-test"})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

type fakeAuthService struct {
	token    string
	loginErr error
	inEmail  string
	inPass   string
	logouts  int
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (string, error) {
	f.inEmail, f.inPass = email, password
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeAuthService) Logout(_ context.Context) error {
	f.logouts++
	return nil
}

type fakeRecipeService struct {
	views      []*services.RecipeView
	total      int64
	lastParams services.RecipeListParams
	listCalls  int
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

func (f *fakeRecipeService) List(_ context.Context, _ uuid.UUID, params services.RecipeListParams) ([]*services.RecipeView, int64, error) {
	f.listCalls++
	f.lastParams = params
	return f.views, f.total, nil
}

func (f *fakeRecipeService) GetLink(_ context.Context, recipeID uuid.UUID) (string, error) {
	return "http://localhost:8080/recipes/" + recipeID.String() + "/", nil
}

type fakeMembershipService struct {
	addResult  any
	addErr     error
	removeErr  error
	lastKind   repos.MembershipKind
	lastActor  uuid.UUID
	lastTarget uuid.UUID
	lastLimit  int
}

func (f *fakeMembershipService) Add(_ context.Context, kind repos.MembershipKind, actorID, targetID uuid.UUID, recipesLimit int) (any, error) {
	f.lastKind, f.lastActor, f.lastTarget, f.lastLimit = kind, actorID, targetID, recipesLimit
	if f.addErr != nil {
		return nil, f.addErr
	}
	return f.addResult, nil
}

func (f *fakeMembershipService) Remove(_ context.Context, kind repos.MembershipKind, actorID, targetID uuid.UUID) error {
	f.lastKind, f.lastActor, f.lastTarget = kind, actorID, targetID
	return f.removeErr
}

type fakeShoppingListService struct {
	filename string
	data     []byte
	err      error
}

func (f *fakeShoppingListService) Download(_ context.Context, _ uuid.UUID) (string, []byte, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.filename, f.data, nil
}

type fakeUserService struct {
	services.UserService
	registered  *services.RegisteredUserView
	registerErr error
	lastInput   services.RegisterInput
}

func (f *fakeUserService) Register(_ context.Context, input services.RegisterInput) (*services.RegisteredUserView, error) {
	f.lastInput = input
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.registered, nil
}
