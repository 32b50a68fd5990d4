package middleware

import (
	"errors"
	"strings"

	"github.com/Yashvvvv/VenueSync/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// UserIDHeader is set by the API gateway after it authenticated the caller
	UserIDHeader = "X-User-ID"
	// ContextKeyUserID is the gin context key for the authenticated user
	ContextKeyUserID = "user_id"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// AuthConfig configures the identity resolver
type AuthConfig struct {
	Secret string
	Issuer string
	// TrustGatewayHeader accepts X-User-ID from an upstream gateway
	TrustGatewayHeader bool
}

// JWTAuth resolves the caller's user id from an HS256 bearer token (or the
// gateway header when trusted) and stores it under ContextKeyUserID.
func JWTAuth(cfg *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.TrustGatewayHeader {
			if userID := c.GetHeader(UserIDHeader); userID != "" {
				c.Set(ContextKeyUserID, userID)
				c.Next()
				return
			}
		}

		userID, err := ParseUserID(c.GetHeader("Authorization"), cfg)
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}

		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// ParseUserID validates an "Authorization: Bearer" value and returns the
// subject (or user_id claim)
func ParseUserID(header string, cfg *AuthConfig) (string, error) {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return "", ErrMissingToken
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", jwt.ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID, nil
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	return "", ErrInvalidToken
}

// GetUserID returns the authenticated user id, or "" when unauthenticated
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
