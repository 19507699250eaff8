package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"venue-booking/constants"
	"venue-booking/logger"
	userModel "venue-booking/models/user"
	"venue-booking/repository"
	"venue-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Session tokens are signed locally with APP_SECRET. Claims carry the
// user id and the staff flag; the user row is reloaded on every request
// so revoked staff access takes effect immediately.

const tokenLifetime = 8 * time.Hour

func secret() []byte {
	return []byte(os.Getenv("APP_SECRET"))
}

// IssueToken creates a signed session token for the user.
func IssueToken(u *userModel.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  u.ID,
		"username": u.Username,
		"is_staff": u.IsStaff,
		"exp":      time.Now().Add(tokenLifetime).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// VerifyToken parses and validates a session token.
func VerifyToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func extractToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return "", errors.New("invalid authorization header format")
		}
		return tokenParts[1], nil
	}

	// Fall back to the session cookie set at login
	token := c.Cookies(constants.AccessCookie)
	if token == "" {
		return "", errors.New("authorization token missing")
	}
	return token, nil
}

func loadUser(c *fiber.Ctx, users repository.UserRepository) (*userModel.User, error) {
	token, err := extractToken(c)
	if err != nil {
		return nil, err
	}

	claims, err := VerifyToken(token)
	if err != nil {
		return nil, err
	}

	id, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("malformed token claims")
	}

	u, err := users.FindByID(c.UserContext(), uint(id))
	if err != nil {
		return nil, errors.New("session user no longer exists")
	}
	return u, nil
}

// RequireAuthentication rejects requests without a valid session and
// attaches the loaded user to the request context.
func RequireAuthentication(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := loadUser(c, users)
		if err != nil {
			logger.Warning(fmt.Sprintf("Authentication failed: %v", err))
			return c.Status(fiber.StatusUnauthorized).JSON(types.Fail("Authentication required."))
		}

		c.Locals("user", u)
		return c.Next()
	}
}

// RequireStaff additionally rejects authenticated users without the
// staff flag.
func RequireStaff(users repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := loadUser(c, users)
		if err != nil {
			logger.Warning(fmt.Sprintf("Authentication failed: %v", err))
			return c.Status(fiber.StatusUnauthorized).JSON(types.Fail("Authentication required."))
		}
		if !u.CanManage() {
			return c.Status(fiber.StatusForbidden).JSON(types.Fail("You do not have permission to perform this action."))
		}

		c.Locals("user", u)
		return c.Next()
	}
}

// CurrentUser returns the user attached by the auth middleware, or nil
// when the request is anonymous.
func CurrentUser(c *fiber.Ctx) *userModel.User {
	u, _ := c.Locals("user").(*userModel.User)
	return u
}
