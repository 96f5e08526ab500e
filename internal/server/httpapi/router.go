package httpapi

import (
	"github.com/gin-gonic/gin"
)

// NewRouter assembles the route table. Everything under /api/v1/auth is
// public except renewal, which requires a signed session token.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/status", h.Status)

	authGroup := router.Group("/api/v1/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/google/url", h.GoogleURL)
		authGroup.POST("/google", h.GoogleLogin)

		authGroup.POST("/renew", SessionAuthMiddleware(h.svc.Codec()), h.Renew)
	}

	return router
}
