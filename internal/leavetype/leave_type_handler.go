package leavetype

import (
	"net/http"

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
	l := zap.L().Named("leavetype.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		httpErr := response.ServiceError(c, err)
		contextutil.GetLogger(c.Request.Context(), h.logger).Warn("list leave types failed",
			zap.Int("status", httpErr.Status),
			zap.Error(err),
		)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
