package user

import (
	"net/http"
	"strconv"
	"strings"

	"go-leaveflow/internal/shared/apperror"
	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/response"
	"go-leaveflow/internal/shared/storage"
	usererrors "go-leaveflow/internal/user/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("user.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.ServiceError(c, err)
	contextutil.GetLogger(c.Request.Context(), h.logger).Warn("user request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
}

func (h *Handler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.svc.GetProfile(ctx, contextutil.GetUserID(ctx))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// UpdateProfile accepts JSON or a multipart form with an optional
// profile_picture file.
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()

	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	var picture *storage.Upload
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if fh, err := c.FormFile("profile_picture"); err == nil {
			file, err := fh.Open()
			if err != nil {
				h.writeServiceError(c, err)
				return
			}
			defer file.Close() //nolint:errcheck
			picture = &storage.Upload{Filename: fh.Filename, Size: fh.Size, Content: file}
		}
	}

	resp, err := h.svc.UpdateProfile(ctx, contextutil.GetUserID(ctx), req, picture)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"message": "Profile updated successfully!",
		"user":    resp,
	}, nil)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	ctx := c.Request.Context()

	var req ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	if err := h.svc.ChangePassword(ctx, contextutil.GetUserID(ctx), req); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Password changed successfully!"}, nil)
}

func (h *Handler) AssignManager(c *gin.Context) {
	ctx := c.Request.Context()

	var req AssignManagerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.svc.AssignManager(ctx, contextutil.GetUserID(ctx), req.ManagerID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListAll(c *gin.Context) {
	resp, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	role := strings.TrimSpace(strings.ToLower(c.Query("role")))
	if role != "" {
		filtered := make([]UserResponse, 0, len(resp))
		for _, u := range resp {
			if u.Role == role {
				filtered = append(filtered, u)
			}
		}
		resp = filtered
	}

	page, meta := response.Paginate(c, resp)
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		h.writeServiceError(c, usererrors.ErrInvalidUserID)
		return
	}

	if err := h.svc.Delete(ctx, contextutil.GetUserID(ctx), uint(targetID)); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"deleted": true,
		"message": "User deleted successfully.",
	}, nil)
}
