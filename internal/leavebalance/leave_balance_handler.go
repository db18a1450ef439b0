package leavebalance

import (
	"net/http"
	"strconv"

	"go-leaveflow/internal/shared/apperror"
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
	l := zap.L().Named("leavebalance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.handler")
	}
	return &Handler{svc: service, logger: l}
}

// ListMine returns the caller's balances, for ?year= or the current year.
func (h *Handler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()

	year := 0
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			response.ServiceError(c, apperror.InvalidField("year"))
			return
		}
		year = v
	}

	resp, err := h.svc.ListForEmployee(ctx, contextutil.GetUserID(ctx), year)
	if err != nil {
		httpErr := response.ServiceError(c, err)
		contextutil.GetLogger(ctx, h.logger).Warn("list balances failed",
			zap.Int("status", httpErr.Status),
			zap.Error(err),
		)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
