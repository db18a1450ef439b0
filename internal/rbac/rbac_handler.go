package rbac

import (
	"net/http"

	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

// Capabilities lists what the caller's role may do, for building menus.
func (h *Handler) Capabilities(c *gin.Context) {
	role := contextutil.GetRole(c.Request.Context())

	caps, err := h.service.Capabilities(role)
	if err != nil {
		contextutil.GetLogger(c.Request.Context(), h.logger).Error("list capabilities failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"role":         role,
		"capabilities": caps,
	}, nil)
}
