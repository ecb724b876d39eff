package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"EstateHub/internal/models"
)

const (
	TokenCookie   = "token"
	UserIDLocal   = "user_id"
	UserRoleLocal = "user_role"
)

// Protected validates the session token from the "token" cookie, or from an
// Authorization bearer header when no cookie is sent. A missing token is
// 401; anything wrong with a present token is 403.
func Protected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(TokenCookie)
		if tokenString == "" {
			tokenString = bearerToken(c.Get(fiber.HeaderAuthorization))
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not Authenticated!",
			})
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Token is not Valid!",
			})
		}

		userID, ok := subjectID(token.Claims)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Token is not Valid!",
			})
		}

		c.Locals(UserIDLocal, userID)
		return c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// subjectID reads the user id from the "id" claim.
func subjectID(claims jwt.Claims) (uint, bool) {
	mc, ok := claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	id, ok := mc["id"].(float64)
	if !ok || id <= 0 || id != float64(uint(id)) {
		return 0, false
	}
	return uint(id), true
}

// UserID returns the id stored by Protected.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(UserIDLocal).(uint)
	return id, ok
}

type RoleSource interface {
	RoleOf(ctx context.Context, userID uint) (models.Role, error)
}

// RequireRoles must run after Protected. It resolves the authenticated
// user's role from storage and rejects roles outside the allow-list.
func RequireRoles(source RoleSource, roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := UserID(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not Authenticated!",
			})
		}

		role, err := source.RoleOf(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}

		for _, r := range roles {
			if role == r {
				c.Locals(UserRoleLocal, role)
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "forbidden",
		})
	}
}
