package serverutils

import (
	"strings"

	"shop-chatbot-be/pkg/assistant"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const claimsKey = "claims"

// Claims are the fields read from a storefront or staff token.
type Claims struct {
	UserID string
	Role   assistant.Role
}

func bearerToken(ctx *fiber.Ctx) string {
	if token := ctx.Query("token"); token != "" {
		return token
	}
	authHeader := ctx.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return token
	}
	return ""
}

// ParseToken verifies an HMAC token and extracts its claims.
func ParseToken(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	claims := &Claims{Role: assistant.RoleCustomer}
	if uid, ok := mapClaims["user_id"].(string); ok {
		claims.UserID = uid
	} else if sub, ok := mapClaims["sub"].(string); ok {
		claims.UserID = sub
	}
	if role, ok := mapClaims["role"].(string); ok {
		claims.Role = assistant.ParseRole(role)
		if claims.Role == assistant.RoleGuest {
			claims.Role = assistant.RoleCustomer
		}
	}
	return claims, nil
}

// OptionalJwtMiddleware attaches claims when a valid token is present.
// Requests without one, or with a bad one, continue anonymously.
func OptionalJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if tokenStr := bearerToken(ctx); tokenStr != "" && secret != "" {
			if claims, err := ParseToken(tokenStr, secret); err == nil {
				ctx.Locals(claimsKey, claims)
			}
		}
		return ctx.Next()
	}
}

// RequireRoles rejects requests without a valid token carrying one of roles.
func RequireRoles(secret string, roles ...assistant.Role) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
		}
		if secret == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authentication is not configured")
		}
		claims, err := ParseToken(tokenStr, secret)
		if err != nil {
			return err
		}
		for _, r := range roles {
			if claims.Role == r {
				ctx.Locals(claimsKey, claims)
				return ctx.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Access denied")
	}
}

// StaffRoles are the roles allowed on the admin API and the staff socket.
var StaffRoles = []assistant.Role{assistant.RoleStaff, assistant.RoleManager, assistant.RoleAdmin}

// ClaimsFrom returns the verified claims of the request, or nil.
func ClaimsFrom(ctx *fiber.Ctx) *Claims {
	claims, _ := ctx.Locals(claimsKey).(*Claims)
	return claims
}
