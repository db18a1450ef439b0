package dashboard

import (
	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterHome mounts GET / on a group that runs OptionalAuth.
func RegisterHome(r gin.IRoutes, handler *Handler) {
	r.GET("/", handler.Home)
}

// RegisterRoutes expects r to be behind AuthMiddleware.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	dash := r.Group("/dashboard")
	{
		dash.GET("/admin/",
			middleware.RequireCapability(rbacService, domain.ResourceDashboard, domain.ActionAdmin),
			handler.Admin,
		)
		dash.GET("/manager/",
			middleware.RequireCapability(rbacService, domain.ResourceDashboard, domain.ActionManager),
			handler.Manager,
		)
		dash.GET("/employee/",
			middleware.RequireCapability(rbacService, domain.ResourceDashboard, domain.ActionEmployee),
			handler.Employee,
		)
	}
}
