package middleware

import (
	"net/http"

	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by rbac.Service.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

const deniedNotice = "You do not have permission to access this page."

// RequireCapability admits callers whose role holds resource:action. Denied
// callers are redirected to their landing page with a notice.
func RequireCapability(service RBACService, resource, action string) gin.HandlerFunc {
	return RequireAnyCapability(service, domain.Capability{Resource: resource, Action: action})
}

// RequireAnyCapability admits callers holding at least one of caps.
func RequireAnyCapability(service RBACService, caps ...domain.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		role := contextutil.GetRole(ctx)

		for _, want := range caps {
			allowed, err := service.Enforce(domain.EnforceRequest{
				Role:     role,
				Resource: want.Resource,
				Action:   want.Action,
			})
			if err != nil {
				contextutil.GetLogger(ctx, zap.L()).Error("capability check failed",
					zap.String("resource", want.Resource),
					zap.String("action", want.Action),
					zap.Error(err),
				)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err.Error())
				c.Abort()
				return
			}
			if allowed {
				c.Next()
				return
			}
		}

		contextutil.GetLogger(ctx, zap.L()).Info("capability denied",
			zap.String("role", role),
			zap.Any("required", caps),
		)
		response.Forbidden(c, deniedNotice)
		c.Abort()
	}
}
