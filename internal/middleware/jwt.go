package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/ailit-assessment/internal/response"
	"github.com/stemsi/ailit-assessment/internal/service"
)

const (
	// ContextKeyClaims is the Gin context key for JWT claims.
	ContextKeyClaims = "claims"
)

// TokenValidator parses a signed token into claims.
type TokenValidator interface {
	ValidateToken(tokenStr string) (*service.Claims, error)
}

// RequireRunJWT validates a run token from the Authorization header.
func RequireRunJWT(v TokenValidator) gin.HandlerFunc {
	return requireToken(v, service.TokenTypeRun, response.ErrRunAccessOnly, bearerToken)
}

// RequireAdminJWT validates an admin token from the Authorization header.
func RequireAdminJWT(v TokenValidator) gin.HandlerFunc {
	return requireToken(v, service.TokenTypeAdmin, response.ErrAdminAccessOnly, bearerToken)
}

// RequireRunWSAuth validates a run token from the query param ?token=...
// Browsers cannot set headers on WebSocket upgrade requests.
func RequireRunWSAuth(v TokenValidator) gin.HandlerFunc {
	return requireToken(v, service.TokenTypeRun, response.ErrRunAccessOnly, func(c *gin.Context) string {
		return c.Query("token")
	})
}

func requireToken(v TokenValidator, want service.TokenType, wrongType response.ErrCode, extract func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extract(c)
		if tokenStr == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := v.ValidateToken(tokenStr)
		if err != nil {
			code := response.ErrTokenInvalid
			if errors.Is(err, service.ErrTokenExpired) {
				code = response.ErrTokenExpired
			}
			response.AbortFail(c, http.StatusUnauthorized, code)
			return
		}

		if claims.TokenType != want {
			response.AbortFail(c, http.StatusForbidden, wrongType)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims retrieves the JWT claims from the Gin context.
func GetClaims(c *gin.Context) *service.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetRunID returns the run id of the authenticated run token, or "".
func GetRunID(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.RunID()
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
