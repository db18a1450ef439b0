package chat

import (
	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes expects r to be behind AuthMiddleware.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	chat := r.Group("/chat")
	chat.Use(middleware.RequireCapability(rbacService, domain.ResourceChat, domain.ActionUse))
	{
		chat.GET("/users/", handler.Users)
		chat.GET("/messages/:partner_id/", handler.Messages)
		chat.POST("/send/",
			middleware.RateLimitByUser(5, 20),
			middleware.Idempotency(rdb),
			handler.Send,
		)
		chat.GET("/check/:partner_id/", middleware.RateLimitByUser(2, 10), handler.Check)
	}
}
