package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	types "github.com/platefeed/platefeed-backend/internal/domain"
	"github.com/platefeed/platefeed-backend/internal/pkg/ctxutil"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
)

func newAuthFixture(t *testing.T) (AuthService, *fakeUserRepo, *fakeTokenService) {
	t.Helper()
	log := newTestLogger(t)

	userRepo := &fakeUserRepo{byEmail: map[string]*types.User{}}
	tokenService := &fakeTokenService{issued: "issued-token"}
	return NewAuthService(log, userRepo, tokenService), userRepo, tokenService
}

func seedCredentials(t *testing.T, userRepo *fakeUserRepo, email, password string) *types.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &types.User{ID: uuid.New(), Email: email, Username: "cook", Password: string(hash)}
	userRepo.byEmail[email] = user
	return user
}

func TestLogin_SucceedsAndNormalizesEmail(t *testing.T) {
	t.Parallel()
	svc, userRepo, _ := newAuthFixture(t)
	seedCredentials(t, userRepo, "cook@example.com", "password123")

	token, err := svc.Login(context.Background(), "  Cook@Example.COM ", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "issued-token" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestLogin_FailuresShareOneMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "password123"},
		{"wrong password", "cook@example.com", "wrong-password"},
		{"empty email", "", "password123"},
		{"empty password", "cook@example.com", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, userRepo, _ := newAuthFixture(t)
			seedCredentials(t, userRepo, "cook@example.com", "password123")

			_, err := svc.Login(context.Background(), tc.email, tc.password)
			apiErr := asAPIError(t, err)
			if apiErr.Kind != apierr.KindBusinessRule {
				t.Fatalf("unexpected kind: got=%d want=%d", apiErr.Kind, apierr.KindBusinessRule)
			}
			if apiErr.Message != "Unable to log in with provided credentials." {
				t.Fatalf("unexpected message: %q", apiErr.Message)
			}
		})
	}
}

func TestLogout_RevokesCurrentToken(t *testing.T) {
	t.Parallel()
	svc, _, tokenService := newAuthFixture(t)

	ctx := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID:  uuid.New(),
		TokenID: "jti-1",
	})
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokenService.revoked) != 1 || tokenService.revoked[0] != "jti-1" {
		t.Fatalf("unexpected revocations: %v", tokenService.revoked)
	}
}

func TestLogout_WithoutIdentity(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthFixture(t)

	err := svc.Logout(context.Background())
	if asAPIError(t, err).Kind != apierr.KindAuthRequired {
		t.Fatalf("expected auth required, got %v", err)
	}
}
