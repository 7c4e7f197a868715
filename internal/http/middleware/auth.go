package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/platefeed-backend/internal/http/response"
	"github.com/platefeed/platefeed-backend/internal/pkg/ctxutil"
	"github.com/platefeed/platefeed-backend/internal/platform/apierr"
	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/platform/tokens"
)

const (
	authRequiredMessage = "Authentication credentials were not provided."
	invalidTokenMessage = "Invalid token."
)

type AuthMiddleware struct {
	log          *logger.Logger
	tokenService tokens.Service
}

func NewAuthMiddleware(log *logger.Logger, tokenService tokens.Service) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, tokenService: tokenService}
}

// RequireAuth rejects the request unless a live token authenticates it.
// Missing credentials and rejected tokens both answer 401.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.AbortFail(c, am.log, apierr.AuthRequired(authRequiredMessage))
			return
		}
		userID, tokenID, err := am.tokenService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("Token rejected", "error", err)
			response.AbortFail(c, am.log, apierr.AuthRequired(invalidTokenMessage))
			return
		}
		setRequestData(c, userID, tokenID, tokenString)
		c.Next()
	}
}

// OptionalAuth attaches the caller identity when a valid token is present
// and lets the request through anonymously otherwise.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}
		userID, tokenID, err := am.tokenService.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			c.Next()
			return
		}
		setRequestData(c, userID, tokenID, tokenString)
		c.Next()
	}
}

func setRequestData(c *gin.Context, userID uuid.UUID, tokenID, tokenString string) {
	ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{
		UserID:      userID,
		TokenID:     tokenID,
		TokenString: tokenString,
	})
	c.Request = c.Request.WithContext(ctx)
}

// extractToken reads the Authorization header. The scheme is "Token";
// "Bearer" is accepted as an alias.
func extractToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		return ""
	}
	for _, scheme := range []string{"Token ", "Bearer "} {
		if len(authHeader) > len(scheme) && strings.EqualFold(authHeader[:len(scheme)], scheme) {
			return strings.TrimSpace(authHeader[len(scheme):])
		}
	}
	return ""
}
