package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solvexa/authgate/internal/server/auth"
	"github.com/solvexa/authgate/internal/server/models"
)

const authContextKey = "auth_context"

// SessionAuthMiddleware verifies the bearer token's signature and stashes
// the decoded identity for downstream handlers. Expiry and store liveness
// stay with the engine; a signature check is all the transport does.
func SessionAuthMiddleware(codec *auth.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		claims, err := codec.Parse(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set(authContextKey, &models.AuthContext{
			SessionToken: token,
			UserID:       claims.UserID,
		})
		c.Next()
	}
}

func GetAuthContext(c *gin.Context) *models.AuthContext {
	if value, ok := c.Get(authContextKey); ok {
		if authCtx, ok := value.(*models.AuthContext); ok {
			return authCtx
		}
	}
	return nil
}
