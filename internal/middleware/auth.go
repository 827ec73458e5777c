// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"promptvault/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session token identity.
const (
	TokenIssuer   = "promptvault-api"
	TokenAudience = "promptvault-client"
)

// Errors returned by ParseToken.
var (
	ErrMissingToken = errors.New("authorization required")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// IssueToken signs an HS256 session token whose subject is userID.
func IssueToken(secret, userID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    TokenIssuer,
		Audience:  jwt.ClaimStrings{TokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns its subject.
func ParseToken(secret, tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrMissingToken
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) string {
	scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AuthRequired rejects requests without a valid session token and stores the
// subject in c.Locals("userID") and the request context.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := ParseToken(secret, BearerToken(c))
		if err != nil {
			msg := "Invalid or expired token"
			if errors.Is(err, ErrMissingToken) {
				msg = "Authorization required"
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(msg))
		}

		c.Locals("userID", userID)
		c.SetUserContext(WithUserID(c.UserContext(), userID))
		return c.Next()
	}
}

// OptionalAuth resolves the session when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, err := ParseToken(secret, BearerToken(c)); err == nil {
			c.Locals("userID", userID)
			c.SetUserContext(WithUserID(c.UserContext(), userID))
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id stored by AuthRequired or OptionalAuth.
func UserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals("userID").(string)
	return id, ok && id != ""
}
