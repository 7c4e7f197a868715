package tokens

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/platefeed/platefeed-backend/internal/platform/logger"
	"github.com/platefeed/platefeed-backend/internal/utils"
)

// Service issues and validates HS256 access tokens. Every issued token
// carries a unique token id (jti) that is written to a Redis allowlist
// with the token's TTL; logout deletes the entry, so a token stays valid
// only while its id is present. Validation therefore needs both a good
// signature and a live allowlist entry.
type Service interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	Authenticate(ctx context.Context, tokenString string) (uuid.UUID, string, error)
	Revoke(ctx context.Context, tokenID string) error
	Ping(ctx context.Context) error
	Close() error
}

type accessClaims struct {
	jwt.RegisteredClaims
}

type service struct {
	log       *logger.Logger
	rdb       *goredis.Client
	secretKey string
	accessTTL time.Duration
}

// NewService reads JWT_SECRET_KEY, ACCESS_TOKEN_TTL (minutes) and
// REDIS_ADDR/REDIS_PASSWORD from the environment and pings Redis before
// returning.
func NewService(log *logger.Logger) (Service, error) {
	secretKey := strings.TrimSpace(os.Getenv("JWT_SECRET_KEY"))
	if secretKey == "" {
		return nil, fmt.Errorf("missing env var JWT_SECRET_KEY")
	}
	accessTTL := time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 1440, log)) * time.Minute

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing env var REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewServiceWithClient(log, rdb, secretKey, accessTTL), nil
}

// NewServiceWithClient wires an existing Redis client, which is how
// tests construct the service.
func NewServiceWithClient(log *logger.Logger, rdb *goredis.Client, secretKey string, accessTTL time.Duration) Service {
	return &service{
		log:       log.With("service", "TokenService"),
		rdb:       rdb,
		secretKey: secretKey,
		accessTTL: accessTTL,
	}
}

func allowlistKey(tokenID string) string {
	return "auth:token:" + tokenID
}

func (s *service) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	tokenID := uuid.New().String()
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	if err := s.rdb.Set(ctx, allowlistKey(tokenID), userID.String(), s.accessTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to allowlist token: %w", err)
	}
	return signed, nil
}

func (s *service) Authenticate(ctx context.Context, tokenString string) (uuid.UUID, string, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.secretKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*accessClaims)
	if !ok || !parsedToken.Valid {
		return uuid.Nil, "", fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("invalid user id in token: %w", err)
	}
	if claims.ID == "" {
		return uuid.Nil, "", fmt.Errorf("missing token id")
	}
	exists, err := s.rdb.Exists(ctx, allowlistKey(claims.ID)).Result()
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to check token allowlist: %w", err)
	}
	if exists == 0 {
		return uuid.Nil, "", fmt.Errorf("token revoked")
	}
	return userID, claims.ID, nil
}

func (s *service) Revoke(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return fmt.Errorf("empty token id")
	}
	if err := s.rdb.Del(ctx, allowlistKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *service) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *service) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
