package services

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	types "github.com/platefeed/platefeed-backend/internal/domain"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
)

func newUserFixture(t *testing.T) (UserService, *fakeUserRepo) {
	t.Helper()
	log := newTestLogger(t)

	userRepo := &fakeUserRepo{
		byID:      map[uuid.UUID]*types.User{},
		byEmail:   map[string]*types.User{},
		emails:    map[string]bool{},
		usernames: map[string]bool{},
	}
	subscriptionRepo := &fakeSubscriptionRepo{following: map[uuid.UUID]bool{}}
	return NewUserService(nil, log, userRepo, subscriptionRepo, nil, nil), userRepo
}

func TestRegister_CollectsRequiredFields(t *testing.T) {
	t.Parallel()
	svc, _ := newUserFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{})
	apiErr := asAPIError(t, err)
	if apiErr.Kind != apierr.KindValidation {
		t.Fatalf("unexpected kind: got=%d want=%d", apiErr.Kind, apierr.KindValidation)
	}

	want := map[string][]string{
		"email":      {"This field is required."},
		"username":   {"This field is required."},
		"first_name": {"This field is required."},
		"last_name":  {"This field is required."},
		"password":   {"This field is required."},
	}
	if !reflect.DeepEqual(apiErr.Fields, want) {
		t.Fatalf("unexpected fields:\ngot:  %v\nwant: %v", apiErr.Fields, want)
	}
}

func TestRegister_EmailRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		email string
		taken bool
		want  string
	}{
		{"too long", strings.Repeat("a", 250) + "@b.io", false, "Ensure this field has no more than 254 characters."},
		{"invalid", "not-an-email", false, "Enter a valid email address."},
		{"taken", "taken@example.com", true, "user with this email already exists."},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, userRepo := newUserFixture(t)
			if tc.taken {
				userRepo.emails[tc.email] = true
			}

			input := RegisterInput{
				Email:     tc.email,
				Username:  "cook",
				FirstName: "Ann",
				LastName:  "Ives",
				Password:  "password123",
			}
			_, err := svc.Register(context.Background(), input)
			apiErr := asAPIError(t, err)
			if want := []string{tc.want}; !reflect.DeepEqual(apiErr.Fields["email"], want) {
				t.Fatalf("unexpected email errors: %v", apiErr.Fields["email"])
			}
		})
	}
}

func TestRegister_UsernameRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		username string
		taken    bool
		want     string
	}{
		{"too long", strings.Repeat("u", 151), false, "Ensure this field has no more than 150 characters."},
		{"bad characters", "bad name!", false, "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."},
		{"reserved", "me", false, `"me" is not allowed as a username.`},
		{"reserved uppercase", "ME", false, `"me" is not allowed as a username.`},
		{"taken", "cook", true, "user with this username already exists."},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, userRepo := newUserFixture(t)
			if tc.taken {
				userRepo.usernames[tc.username] = true
			}

			input := RegisterInput{
				Email:     "cook@example.com",
				Username:  tc.username,
				FirstName: "Ann",
				LastName:  "Ives",
				Password:  "password123",
			}
			_, err := svc.Register(context.Background(), input)
			apiErr := asAPIError(t, err)
			if want := []string{tc.want}; !reflect.DeepEqual(apiErr.Fields["username"], want) {
				t.Fatalf("unexpected username errors: %v", apiErr.Fields["username"])
			}
		})
	}
}

func TestRegister_PasswordTooShort(t *testing.T) {
	t.Parallel()
	svc, _ := newUserFixture(t)

	input := RegisterInput{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Ann",
		LastName:  "Ives",
		Password:  "short1",
	}
	_, err := svc.Register(context.Background(), input)
	apiErr := asAPIError(t, err)
	want := []string{"This password is too short. It must contain at least 8 characters."}
	if !reflect.DeepEqual(apiErr.Fields["password"], want) {
		t.Fatalf("unexpected password errors: %v", apiErr.Fields["password"])
	}
}

func TestSetPassword(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("oldpass123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	newFixture := func(t *testing.T) (UserService, *fakeUserRepo, uuid.UUID) {
		svc, userRepo := newUserFixture(t)
		user := &types.User{ID: uuid.New(), Email: "cook@example.com", Username: "cook", Password: string(hash)}
		userRepo.byID[user.ID] = user
		return svc, userRepo, user.ID
	}

	t.Run("wrong current password", func(t *testing.T) {
		t.Parallel()
		svc, _, userID := newFixture(t)
		err := svc.SetPassword(context.Background(), userID, "wrong", "newpass123")
		apiErr := asAPIError(t, err)
		if apiErr.Kind != apierr.KindBusinessRule || apiErr.Message != "Current password is incorrect." {
			t.Fatalf("unexpected error: %v", apiErr)
		}
	})

	t.Run("new password too short", func(t *testing.T) {
		t.Parallel()
		svc, _, userID := newFixture(t)
		err := svc.SetPassword(context.Background(), userID, "oldpass123", "short")
		apiErr := asAPIError(t, err)
		want := []string{"This password is too short. It must contain at least 8 characters."}
		if !reflect.DeepEqual(apiErr.Fields["new_password"], want) {
			t.Fatalf("unexpected errors: %v", apiErr.Fields)
		}
	})

	t.Run("success stores a new hash", func(t *testing.T) {
		t.Parallel()
		svc, userRepo, userID := newFixture(t)
		if err := svc.SetPassword(context.Background(), userID, "oldpass123", "newpass123"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		stored, ok := userRepo.updatedPasswords[userID]
		if !ok {
			t.Fatalf("expected a stored password hash")
		}
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte("newpass123")) != nil {
			t.Fatalf("stored hash does not match the new password")
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		svc, _ := newUserFixture(t)
		err := svc.SetPassword(context.Background(), uuid.New(), "oldpass123", "newpass123")
		if asAPIError(t, err).Kind != apierr.KindNotFound {
			t.Fatalf("expected not found")
		}
	})
}
