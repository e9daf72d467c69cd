package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // use the access_token cookie when no Bearer header
}

// AuthJWT verifies a bearer token and hydrates user locals
// (user_id, user_name, user_photo, roles) for downstream handlers.
func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}
		c.Locals("jwt_claims", claims)

		// user_id: prefer id, then sub, then user_id
		switch {
		case strClaim(claims, "id") != "":
			c.Locals("user_id", strClaim(claims, "id"))
		case strClaim(claims, "sub") != "":
			c.Locals("user_id", strClaim(claims, "sub"))
		case strClaim(claims, "user_id") != "":
			c.Locals("user_id", strClaim(claims, "user_id"))
		}

		if name := strClaim(claims, "name"); name != "" {
			c.Locals("user_name", name)
		}
		if photo := strClaim(claims, "photo_url"); photo != "" {
			c.Locals("user_photo", photo)
		}
		if v, ok := claims["roles"]; ok {
			c.Locals("roles", v)
		}

		return c.Next()
	}
}

// RequireAdmin gates admin-only groups. Roles come from the token claim
// hydrated by AuthJWT.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if hasRole(c.Locals("roles"), "admin") {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, "Admin access required")
	}
}

func hasRole(v any, want string) bool {
	switch roles := v.(type) {
	case []any:
		for _, r := range roles {
			if s, ok := r.(string); ok && strings.EqualFold(s, want) {
				return true
			}
		}
	case []string:
		for _, r := range roles {
			if strings.EqualFold(r, want) {
				return true
			}
		}
	case string:
		return strings.EqualFold(roles, want)
	}
	return false
}

func strClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
