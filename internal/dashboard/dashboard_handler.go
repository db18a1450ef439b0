package dashboard

import (
	"net/http"

	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("dashboard.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.ServiceError(c, err)
	contextutil.GetLogger(c.Request.Context(), h.logger).Warn("dashboard request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
}

// Home sends the caller to the landing page of their role, or to login.
func (h *Handler) Home(c *gin.Context) {
	role := domain.Role(contextutil.GetRole(c.Request.Context()))
	c.Redirect(http.StatusFound, domain.LandingPath(role))
}

func (h *Handler) Admin(c *gin.Context) {
	data, err := h.svc.Admin(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, data, nil)
}

func (h *Handler) Manager(c *gin.Context) {
	ctx := c.Request.Context()
	data, err := h.svc.Manager(ctx, contextutil.GetUserID(ctx))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, data, nil)
}

func (h *Handler) Employee(c *gin.Context) {
	ctx := c.Request.Context()
	data, err := h.svc.Employee(ctx, contextutil.GetUserID(ctx))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, data, nil)
}
