package auth

import (
	"go-leaveflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the public endpoints on public and the session
// endpoints on authed.
func RegisterRoutes(public, authed *gin.RouterGroup, handler *Handler) {
	auth := public.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		auth.POST("/signup", middleware.RateLimitByIP(0.1, 3), handler.Signup)
		auth.POST("/logout", handler.Logout)
	}

	authed.GET("/auth/me", middleware.RateLimitByUser(2, 5), handler.Me)
}
