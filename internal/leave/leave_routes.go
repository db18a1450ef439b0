package leave

import (
	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes expects r to be behind AuthMiddleware.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	leaves := r.Group("/leaves")
	{
		leaves.GET("/request/",
			middleware.RequireCapability(rbacService, domain.ResourceLeave, domain.ActionRequest),
			handler.RequestForm,
		)
		leaves.POST("/request/",
			middleware.RateLimitByUser(1, 5),
			middleware.RequireCapability(rbacService, domain.ResourceLeave, domain.ActionRequest),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leaves.GET("/my-leaves/",
			middleware.RequireCapability(rbacService, domain.ResourceLeave, domain.ActionReadOwn),
			handler.List,
		)
		leaves.GET("/all/",
			middleware.RequireAnyCapability(rbacService,
				domain.Capability{Resource: domain.ResourceLeave, Action: domain.ActionReadAll},
				domain.Capability{Resource: domain.ResourceLeave, Action: domain.ActionReadTeam},
			),
			handler.List,
		)
		leaves.GET("/history/",
			middleware.RequireCapability(rbacService, domain.ResourceLeave, domain.ActionHistory),
			handler.List,
		)
		leaves.POST("/approve/:id/",
			middleware.RequireCapability(rbacService, domain.ResourceLeave, domain.ActionDecide),
			middleware.Idempotency(rdb),
			handler.Decide,
		)
		leaves.POST("/cancel/:id/",
			middleware.RequireCapability(rbacService, domain.ResourceLeave, domain.ActionCancelOwn),
			handler.Cancel,
		)
	}
}
