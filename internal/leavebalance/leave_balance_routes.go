package leavebalance

import (
	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	r.GET("/leaves/balances/",
		middleware.RequireCapability(rbacService, domain.ResourceBalance, domain.ActionReadOwn),
		handler.ListMine,
	)
}
