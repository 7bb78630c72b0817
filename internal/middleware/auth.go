package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/releasewizard/api/pkg/response"
)

type AuthMiddleware struct {
	jwtSecret string
}

// UserClaims carries the session identity: the primary artist display name
// and whether a payout method is connected (the wizard's hard gate).
type UserClaims struct {
	UserID          string `json:"userId"`
	ArtistName      string `json:"artistName"`
	HasPayoutMethod bool   `json:"hasPayoutMethod"`
	jwt.RegisteredClaims
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// Authenticate validates JWT token from Authorization header
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return response.Unauthorized(c, "Invalid authorization header format")
		}

		tokenString := parts[1]

		token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(m.jwtSecret), nil
		})

		if err != nil {
			return response.Unauthorized(c, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*UserClaims)
		if !ok || !token.Valid {
			return response.Unauthorized(c, "Invalid token claims")
		}

		// Store identity in context
		c.Locals("userId", claims.UserID)
		c.Locals("artistName", claims.ArtistName)
		c.Locals("hasPayoutMethod", claims.HasPayoutMethod)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) string {
	if userID, ok := c.Locals("userId").(string); ok {
		return userID
	}
	return ""
}

// GetArtistName extracts the primary artist display name from context
func GetArtistName(c *fiber.Ctx) string {
	if artist, ok := c.Locals("artistName").(string); ok {
		return artist
	}
	return ""
}

// HasPayoutMethod reports whether the user has a payout method connected
func HasPayoutMethod(c *fiber.Ctx) bool {
	if connected, ok := c.Locals("hasPayoutMethod").(bool); ok {
		return connected
	}
	return false
}

// GenerateToken creates a new JWT token (useful for testing)
func (m *AuthMiddleware) GenerateToken(userID, artistName string, hasPayoutMethod bool) (string, error) {
	claims := UserClaims{
		UserID:          userID,
		ArtistName:      artistName,
		HasPayoutMethod: hasPayoutMethod,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "releasewizard-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.jwtSecret))
}
