package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Claims is the per-request auth value resolved once at the boundary and
// passed explicitly into services.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Ordered privilege set. Higher rank includes everything below it.
var roleRank = map[string]int{
	"customer":       0,
	"fulfillment":    1,
	"content_editor": 2,
	"manager":        3,
	"owner":          4,
}

// RoleAtLeast reports whether role carries at least min's privileges.
// Unknown roles rank below customer.
func RoleAtLeast(role, min string) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	m, ok := roleRank[min]
	if !ok {
		return false
	}
	return r >= m
}

var jwtSecret []byte

// SetSecret installs the signing secret. Called once from main before any
// route is served.
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

// GenerateToken creates a signed token for the given user details and expiry (in hours)
func GenerateToken(userID, email, role string, hours int) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(hours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "studio-api",
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(jwtSecret)
}

// JWTMiddleware returns an Echo middleware that validates token and sets claims on context
func JWTMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, errMsg := parseAuthHeader(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": errMsg})
			}
			c.Set("auth_claims", claims)
			return next(c)
		}
	}
}

// RequireRole gates a route group behind a minimum role. Must run after
// JWTMiddleware.
func RequireRole(min string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetClaims(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			}
			if !RoleAtLeast(claims.Role, min) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": min + " role required"})
			}
			return next(c)
		}
	}
}

// Helper to extract claims
func GetClaims(c echo.Context) *Claims {
	v := c.Get("auth_claims")
	if v == nil {
		return nil
	}
	if cl, ok := v.(*Claims); ok {
		return cl
	}
	return nil
}

// TryGetClaimsFromAuthHeader checks Authorization header and parses token if present.
// Returns claims or nil (no error). If token is present but invalid, returns nil.
func TryGetClaimsFromAuthHeader(c echo.Context) *Claims {
	claims, _ := parseAuthHeader(c)
	return claims
}

func parseAuthHeader(c echo.Context) (*Claims, string) {
	auth := c.Request().Header.Get("Authorization")
	if auth == "" {
		return nil, "missing authorization header"
	}
	parts := strings.Fields(auth)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, "invalid authorization header"
	}
	token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, "invalid or expired token"
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, "invalid token claims"
	}
	return claims, ""
}
