package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	types "github.com/platefeed/platefeed-backend/internal/domain"
	pkgerrors "github.com/platefeed/platefeed-backend/internal/pkg/errors"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

// The fakes below embed their repo interface so only the methods a test
// actually exercises need an override; anything else panics loudly.

type fakeUserRepo struct {
	repos.UserRepo
	byID             map[uuid.UUID]*types.User
	byEmail          map[string]*types.User
	emails           map[string]bool
	usernames        map[string]bool
	getByIDCalls     int
	updatedPasswords map[uuid.UUID]string
}

func (f *fakeUserRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.User, error) {
	f.getByIDCalls++
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeUserRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	out := make([]*types.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (*types.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeUserRepo) EmailExists(_ context.Context, _ *gorm.DB, email string) (bool, error) {
	return f.emails[email], nil
}

func (f *fakeUserRepo) UsernameExists(_ context.Context, _ *gorm.DB, username string) (bool, error) {
	return f.usernames[username], nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, _ *gorm.DB, userID uuid.UUID, passwordHash string) error {
	if f.updatedPasswords == nil {
		f.updatedPasswords = map[uuid.UUID]string{}
	}
	f.updatedPasswords[userID] = passwordHash
	return nil
}

type fakeSubscriptionRepo struct {
	repos.SubscriptionRepo
	following map[uuid.UUID]bool
}

func (f *fakeSubscriptionRepo) AuthorIDSet(_ context.Context, _ *gorm.DB, _ uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	for _, id := range authorIDs {
		if f.following[id] {
			out[id] = true
		}
	}
	return out, nil
}

type fakeIngredientRepo struct {
	repos.IngredientRepo
	byID map[uuid.UUID]*types.Ingredient
	list []*types.Ingredient
}

func (f *fakeIngredientRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Ingredient, error) {
	if ing, ok := f.byID[id]; ok {
		return ing, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeIngredientRepo) List(_ context.Context, _ *gorm.DB, _ string) ([]*types.Ingredient, error) {
	return f.list, nil
}

func (f *fakeIngredientRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Ingredient, error) {
	seen := make(map[uuid.UUID]bool)
	out := make([]*types.Ingredient, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if ing, ok := f.byID[id]; ok {
			out = append(out, ing)
		}
	}
	return out, nil
}

type fakeTagRepo struct {
	repos.TagRepo
	byID map[uuid.UUID]*types.Tag
	list []*types.Tag
}

func (f *fakeTagRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Tag, error) {
	if tag, ok := f.byID[id]; ok {
		return tag, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeTagRepo) List(_ context.Context, _ *gorm.DB) ([]*types.Tag, error) {
	return f.list, nil
}

func (f *fakeTagRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.Tag, error) {
	seen := make(map[uuid.UUID]bool)
	out := make([]*types.Tag, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if tag, ok := f.byID[id]; ok {
			out = append(out, tag)
		}
	}
	return out, nil
}

type fakeRecipeRepo struct {
	repos.RecipeRepo
	byID map[uuid.UUID]*types.Recipe
}

func (f *fakeRecipeRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.Recipe, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeRecipeRepo) ListByAuthor(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ int) ([]*types.Recipe, error) {
	return nil, nil
}

func (f *fakeRecipeRepo) CountByAuthors(_ context.Context, _ *gorm.DB, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64)
	for _, id := range authorIDs {
		var n int64
		for _, r := range f.byID {
			if r.AuthorID == id {
				n++
			}
		}
		out[id] = n
	}
	return out, nil
}

type fakeMembershipRepo struct {
	repos.MembershipRepo
	addErr      error
	removed     bool
	removeErr   error
	targets     map[repos.MembershipKind]map[uuid.UUID]bool
	addCalls    int
	removeCalls int
}

func (f *fakeMembershipRepo) Add(_ context.Context, _ *gorm.DB, _ repos.MembershipKind, _, _ uuid.UUID) error {
	f.addCalls++
	return f.addErr
}

func (f *fakeMembershipRepo) Remove(_ context.Context, _ *gorm.DB, _ repos.MembershipKind, _, _ uuid.UUID) (bool, error) {
	f.removeCalls++
	return f.removed, f.removeErr
}

func (f *fakeMembershipRepo) TargetIDSet(_ context.Context, _ *gorm.DB, kind repos.MembershipKind, _ uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool)
	for _, id := range targetIDs {
		if f.targets[kind][id] {
			out[id] = true
		}
	}
	return out, nil
}

type fakeTokenService struct {
	issued   string
	issueErr error
	userID   uuid.UUID
	tokenID  string
	authErr  error
	revoked  []string
}

func (f *fakeTokenService) Issue(_ context.Context, _ uuid.UUID) (string, error) {
	return f.issued, f.issueErr
}

func (f *fakeTokenService) Authenticate(_ context.Context, _ string) (uuid.UUID, string, error) {
	if f.authErr != nil {
		return uuid.Nil, "", f.authErr
	}
	return f.userID, f.tokenID, nil
}

func (f *fakeTokenService) Revoke(_ context.Context, tokenID string) error {
	f.revoked = append(f.revoked, tokenID)
	return nil
}

func (f *fakeTokenService) Ping(_ context.Context) error { return nil }

func (f *fakeTokenService) Close() error { return nil }

type fakeMediaStore struct {
	uploads   map[string][]byte
	deleted   []string
	uploadErr error
}

func (f *fakeMediaStore) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[key] = data
	return f.URL(key), nil
}

func (f *fakeMediaStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeMediaStore) URL(key string) string { return "http://cdn.test/media/" + key }

type fakeRecipeIngredientRepo struct {
	repos.RecipeIngredientRepo
	totals []repos.IngredientTotal
	lines  []*types.RecipeIngredient
}

func (f *fakeRecipeIngredientRepo) SumForUserCart(_ context.Context, _ *gorm.DB, _ uuid.UUID) ([]repos.IngredientTotal, error) {
	return f.totals, nil
}

func (f *fakeRecipeIngredientRepo) ListForRecipes(_ context.Context, _ *gorm.DB, _ []uuid.UUID) ([]*types.RecipeIngredient, error) {
	return f.lines, nil
}
