package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/platefeed/platefeed-backend/internal/data/repos"
	"github.com/platefeed/platefeed-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/platefeed/platefeed-backend/internal/pkg/errors"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/platform/tokens"
)

const loginFailedMessage = "Unable to log in with provided credentials."

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context) error
}

type authService struct {
	log          *logger.Logger
	userRepo     repos.UserRepo
	tokenService tokens.Service
}

func NewAuthService(log *logger.Logger, userRepo repos.UserRepo, tokenService tokens.Service) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		log:          serviceLog,
		userRepo:     userRepo,
		tokenService: tokenService,
	}
}

// Login answers every credential failure with the same message so the
// response never separates "unknown email" from "wrong password".
func (as *authService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", apierr.BusinessRule(loginFailedMessage)
	}

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return "", apierr.BusinessRule(loginFailedMessage)
		}
		return "", fmt.Errorf("failed to load user by email: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", apierr.BusinessRule(loginFailedMessage)
	}

	token, err := as.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	as.log.Info("User logged in", "user_id", user.ID.String())
	return token, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenID == "" {
		return apierr.AuthRequired("Authentication credentials were not provided.")
	}
	if err := as.tokenService.Revoke(ctx, rd.TokenID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	as.log.Info("User logged out", "user_id", rd.UserID.String())
	return nil
}
