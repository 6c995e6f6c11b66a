package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/amirhzq/unit-media-api/internal/middleware"
	"github.com/amirhzq/unit-media-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// sessionFromContext rebuilds the actor session from validated claims. A nil
// result means the request is unauthenticated.
func sessionFromContext(c *gin.Context) *models.Session {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil
	}
	return claims.Session()
}
