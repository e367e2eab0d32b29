package serverutils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	LocalUserID         = "user_id"
	LocalTokenID        = "token_id"
	LocalTokenExpiresAt = "token_expires_at"
)

// AccessClaims are carried by every access token. ID (jti) keys the revocation list.
type AccessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

func SignAccessToken(secret string, userID uuid.UUID, username string, ttl time.Duration) (string, *AccessClaims, error) {
	now := time.Now()
	claims := &AccessClaims{
		UserID:   userID.String(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func ParseAccessToken(secret, tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, fmt.Errorf("invalid user_id claim: %w", err)
	}
	return claims, nil
}

// bearerToken also accepts ?token= for clients that cannot set headers (browser websockets).
func bearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) >= 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ctx.Query("token")
}

func unauthorized(ctx *fiber.Ctx, message string) error {
	ctx.Set("WWW-Authenticate", "Bearer")
	return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, message))
}

// JwtMiddleware resolves the caller and stores user_id (string) in ctx.Locals.
func JwtMiddleware(secret string, revoked RevocationChecker) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			return unauthorized(ctx, "Missing token")
		}

		claims, err := ParseAccessToken(secret, tokenStr)
		if err != nil {
			return unauthorized(ctx, "Could not validate credentials")
		}

		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(ctx.UserContext(), claims.ID)
			if err != nil {
				return fiber.NewError(fiber.StatusServiceUnavailable, "Token check unavailable")
			}
			if isRevoked {
				return unauthorized(ctx, "Token has been revoked")
			}
		}

		ctx.Locals(LocalUserID, claims.UserID)
		ctx.Locals(LocalTokenID, claims.ID)
		ctx.Locals(LocalTokenExpiresAt, claims.ExpiresAt.Time)
		return ctx.Next()
	}
}

// CurrentUserID reads the caller set by JwtMiddleware.
func CurrentUserID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals(LocalUserID).(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
	}
	return id, nil
}
