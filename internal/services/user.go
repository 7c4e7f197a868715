package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	types "github.com/platefeed/platefeed-backend/internal/domain"
	pkgerrors "github.com/platefeed/platefeed-backend/internal/pkg/errors"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
)

const (
	requiredFieldMessage = "This field is required."
	notFoundMessage      = "Not found."
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type RegisterInput struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisteredUserView, error)
	List(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*UserView, int64, error)
	Get(ctx context.Context, viewerID, userID uuid.UUID) (*UserView, error)
	Me(ctx context.Context, userID uuid.UUID) (*UserView, error)
	SetPassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	SetAvatar(ctx context.Context, userID uuid.UUID, imageData string) (*UserView, error)
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error
	Subscriptions(ctx context.Context, userID uuid.UUID, limit, offset, recipesLimit int) ([]*AuthorView, int64, error)
}

type userService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	subscriptionRepo repos.SubscriptionRepo
	avatarService    AvatarService
	viewService      ViewService
}

func NewUserService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	subscriptionRepo repos.SubscriptionRepo,
	avatarService AvatarService,
	viewService ViewService,
) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:               db,
		log:              serviceLog,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		avatarService:    avatarService,
		viewService:      viewService,
	}
}

func (us *userService) Register(ctx context.Context, input RegisterInput) (*RegisteredUserView, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	password := input.Password

	fields := map[string][]string{}

	switch {
	case email == "":
		fields["email"] = append(fields["email"], requiredFieldMessage)
	case len(email) > 254:
		fields["email"] = append(fields["email"], "Ensure this field has no more than 254 characters.")
	case !emailValid(email):
		fields["email"] = append(fields["email"], "Enter a valid email address.")
	default:
		exists, err := us.userRepo.EmailExists(ctx, nil, email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if exists {
			fields["email"] = append(fields["email"], "user with this email already exists.")
		}
	}

	switch {
	case username == "":
		fields["username"] = append(fields["username"], requiredFieldMessage)
	case len(username) > 150:
		fields["username"] = append(fields["username"], "Ensure this field has no more than 150 characters.")
	case !usernamePattern.MatchString(username):
		fields["username"] = append(fields["username"], "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	case strings.EqualFold(username, "me"):
		fields["username"] = append(fields["username"], `"me" is not allowed as a username.`)
	default:
		exists, err := us.userRepo.UsernameExists(ctx, nil, username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
		}
		if exists {
			fields["username"] = append(fields["username"], "user with this username already exists.")
		}
	}

	switch {
	case firstName == "":
		fields["first_name"] = append(fields["first_name"], requiredFieldMessage)
	case len(firstName) > 150:
		fields["first_name"] = append(fields["first_name"], "Ensure this field has no more than 150 characters.")
	}
	switch {
	case lastName == "":
		fields["last_name"] = append(fields["last_name"], requiredFieldMessage)
	case len(lastName) > 150:
		fields["last_name"] = append(fields["last_name"], "Ensure this field has no more than 150 characters.")
	}

	switch {
	case password == "":
		fields["password"] = append(fields["password"], requiredFieldMessage)
	case len(password) < 8:
		fields["password"] = append(fields["password"], "This password is too short. It must contain at least 8 characters.")
	}

	if len(fields) > 0 {
		return nil, apierr.Validation(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  username,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := us.avatarService.SetGenerated(ctx, user); err != nil {
			return fmt.Errorf("failed to generate avatar: %w", err)
		}
		if _, err := us.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	us.log.Info("User registered", "user_id", user.ID.String())
	return &RegisteredUserView{
		Email:     user.Email,
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (us *userService) List(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*UserView, int64, error) {
	users, err := us.userRepo.List(ctx, nil, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	total, err := us.userRepo.Count(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	views, err := us.viewService.UserViews(ctx, users, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (us *userService) Get(ctx context.Context, viewerID, userID uuid.UUID) (*UserView, error) {
	user, err := us.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return us.viewService.UserView(ctx, user, viewerID)
}

func (us *userService) Me(ctx context.Context, userID uuid.UUID) (*UserView, error) {
	return us.Get(ctx, userID, userID)
}

func (us *userService) SetPassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := us.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)) != nil {
		return apierr.BusinessRule("Current password is incorrect.")
	}

	switch {
	case newPassword == "":
		return apierr.FieldError("new_password", requiredFieldMessage)
	case len(newPassword) < 8:
		return apierr.FieldError("new_password", "This password is too short. It must contain at least 8 characters.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := us.userRepo.UpdatePassword(ctx, nil, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	us.log.Info("Password changed", "user_id", userID.String())
	return nil
}

func (us *userService) SetAvatar(ctx context.Context, userID uuid.UUID, imageData string) (*UserView, error) {
	if strings.TrimSpace(imageData) == "" {
		return nil, apierr.FieldError("avatar", requiredFieldMessage)
	}
	raw, _, err := decodeImageData(imageData)
	if err != nil {
		return nil, apierr.FieldError("avatar", "Upload a valid image.")
	}

	user, err := us.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := us.avatarService.SetFromImage(ctx, user, raw); err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}
	if err := us.userRepo.UpdateAvatarFields(ctx, nil, userID, user.AvatarBucketKey, user.AvatarURL); err != nil {
		return nil, fmt.Errorf("failed to persist avatar fields: %w", err)
	}
	return us.viewService.UserView(ctx, user, userID)
}

func (us *userService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	user, err := us.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := us.avatarService.Clear(ctx, user); err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	if err := us.userRepo.UpdateAvatarFields(ctx, nil, userID, "", ""); err != nil {
		return fmt.Errorf("failed to persist avatar fields: %w", err)
	}
	return nil
}

func (us *userService) Subscriptions(ctx context.Context, userID uuid.UUID, limit, offset, recipesLimit int) ([]*AuthorView, int64, error) {
	authors, err := us.subscriptionRepo.ListAuthors(ctx, nil, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list followed authors: %w", err)
	}
	total, err := us.subscriptionRepo.CountAuthors(ctx, nil, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count followed authors: %w", err)
	}
	views, err := us.viewService.AuthorViews(ctx, authors, userID, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (us *userService) loadUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, apierr.NotFound(notFoundMessage)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func emailValid(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
