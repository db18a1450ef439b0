package user

import (
	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects r to be behind AuthMiddleware.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	profile := r.Group("/profile")
	profile.Use(middleware.RequireCapability(rbacService, domain.ResourceProfile, domain.ActionUpdate))
	{
		profile.GET("/", handler.GetProfile)
		profile.POST("/", middleware.RateLimitByUser(1, 5), handler.UpdateProfile)
		profile.POST("/password/", middleware.RateLimitByUser(0.5, 3), handler.ChangePassword)
		profile.PUT("/manager/", handler.AssignManager)
	}

	r.GET("/dashboard/users/",
		middleware.RequireCapability(rbacService, domain.ResourceUser, domain.ActionRead),
		handler.ListAll,
	)
	r.POST("/users/delete/:id/",
		middleware.RateLimitByUser(1, 5),
		middleware.RequireCapability(rbacService, domain.ResourceUser, domain.ActionDelete),
		handler.Delete,
	)
}
