package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Wikid82/phishwatch/internal/models"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey    = "userID"
	RoleKey      = "role"
	UserNameKey  = "userName"
	UserEmailKey = "userEmail"
)

// AccessTokenCookie is read when no Authorization header is sent.
const AccessTokenCookie = "access_token"

// Claims is the bearer token payload issued by the identity provider. The
// subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// Identity is the verified caller attached to the request.
type Identity struct {
	UserID  string
	Name    string
	Email   string
	IsAdmin bool
}

// Role maps the admin flag onto a role name.
func (i Identity) Role() string {
	if i.IsAdmin {
		return models.RoleAdmin
	}
	return models.RoleUser
}

// GenerateToken signs an HS256 token for id. Used by the seed command and tests;
// production tokens come from the identity provider.
func GenerateToken(secret string, id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:    id.Name,
		Email:   id.Email,
		IsAdmin: id.IsAdmin,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// AuthMiddleware verifies the caller's token and stores their identity in the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid || claims.Subject == "" {
			GetRequestLogger(c).WithError(err).Debug("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		id := Identity{UserID: claims.Subject, Name: claims.Name, Email: claims.Email, IsAdmin: claims.IsAdmin}
		c.Set(UserIDKey, id.UserID)
		c.Set(RoleKey, id.Role())
		c.Set(UserNameKey, id.Name)
		c.Set(UserEmailKey, id.Email)
		c.Set("logger", GetRequestLogger(c).WithField("user_id", id.UserID))
		c.Next()
	}
}

// RequireRole guards a route group; callers without role get 403.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleKey) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	userID := c.GetString(UserIDKey)
	if userID == "" {
		return Identity{}, false
	}
	return Identity{
		UserID:  userID,
		Name:    c.GetString(UserNameKey),
		Email:   c.GetString(UserEmailKey),
		IsAdmin: c.GetString(RoleKey) == models.RoleAdmin,
	}, true
}

func extractToken(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			return "", errors.New("Invalid authorization header format")
		}
		return strings.TrimSpace(token), nil
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", errors.New("Authorization header required")
}
