package leave

import (
	"net/http"
	"strconv"

	"go-leaveflow/internal/domain"
	leaveerrors "go-leaveflow/internal/leave/errors"
	"go-leaveflow/internal/shared/apperror"
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
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func actorFrom(c *gin.Context) Actor {
	ctx := c.Request.Context()
	return Actor{
		ID:   contextutil.GetUserID(ctx),
		Role: domain.Role(contextutil.GetRole(ctx)),
	}
}

func parseLeaveID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, leaveerrors.ErrInvalidLeaveID
	}
	return uint(id), nil
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.ServiceError(c, err)
	contextutil.GetLogger(c.Request.Context(), h.logger).Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
}

// RequestForm returns the choices needed to fill a leave request.
func (h *Handler) RequestForm(c *gin.Context) {
	resp, err := h.service.FormOptions(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Submit(c *gin.Context) {
	actor := actorFrom(c)

	var req SubmitLeaveRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), actor.ID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	id, err := parseLeaveID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req DecideLeaveRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), actorFrom(c), id, req.Action)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := parseLeaveID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), actorFrom(c), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Leave request cancelled successfully."}, nil)
}

// List serves my-leaves, all and history; the service scopes rows by the
// caller's role.
func (h *Handler) List(c *gin.Context) {
	resp, err := h.service.List(c.Request.Context(), actorFrom(c), c.Query("status"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}
