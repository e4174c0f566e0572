package module

import (
	"errors"
	"net/http"
	"strings"

	"github.com/emrgen/cms/internal/token"
	"github.com/gin-gonic/gin"
)

const (
	authorization = "Authorization"
	claimsKey     = "claims"
	bearerPrefix  = "Bearer "
)

// Authenticate verifies the bearer token and stores its claims in the gin context.
// Requests without a valid token are rejected with 401.
func Authenticate(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken, err := accessTokenFromHeader(c.GetHeader(authorization))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := tokens.Validate(accessToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Authenticate.
func ClaimsFrom(c *gin.Context) (*token.Claims, bool) {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*token.Claims)
	return claims, ok
}

func accessTokenFromHeader(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", errors.New("invalid authorization header format")
	}

	// remove prefix Bearer
	return strings.TrimSpace(header[len(bearerPrefix):]), nil
}
