package chat

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	chaterrors "go-leaveflow/internal/chat/errors"
	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/shared/apperror"
	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/response"
	"go-leaveflow/internal/shared/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("chat.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("chat.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.ServiceError(c, err)
	contextutil.GetLogger(c.Request.Context(), h.logger).Warn("chat request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
}

func parsePartnerID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("partner_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, chaterrors.ErrInvalidPartnerID
	}
	return uint(id), nil
}

func (h *Handler) Users(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.svc.Partners(ctx, contextutil.GetUserID(ctx), domain.Role(contextutil.GetRole(ctx)))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users}, nil)
}

func (h *Handler) Messages(c *gin.Context) {
	ctx := c.Request.Context()

	partnerID, err := parsePartnerID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	msgs, err := h.svc.History(ctx, contextutil.GetUserID(ctx), partnerID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"messages": msgs}, nil)
}

// Send takes a JSON body for text messages or a multipart form whose
// optional "attachment" file turns it into an attachment message.
func (h *Handler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	var msg Outgoing
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		receiverID, _ := strconv.ParseUint(c.PostForm("receiver_id"), 10, 64)
		out := AttachmentMessage{
			ReceiverID: uint(receiverID),
			Message:    c.PostForm("message"),
		}
		if fh, err := c.FormFile("attachment"); err == nil {
			file, err := fh.Open()
			if err != nil {
				h.writeServiceError(c, err)
				return
			}
			defer file.Close() //nolint:errcheck
			out.File = &storage.Upload{Filename: fh.Filename, Size: fh.Size, Content: file}
		}
		msg = out
	} else {
		var req TextMessage
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
		msg = req
	}

	resp, err := h.svc.Send(ctx, contextutil.GetUserID(ctx), msg)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true, "message": resp}, nil)
}

// Check is the polling endpoint: ?last_id= is the watermark, ?wait= an
// optional long-poll in seconds.
func (h *Handler) Check(c *gin.Context) {
	ctx := c.Request.Context()

	partnerID, err := parsePartnerID(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var lastID uint64
	if raw := c.Query("last_id"); raw != "" {
		lastID, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.writeServiceError(c, chaterrors.ErrInvalidLastID)
			return
		}
	}

	var wait time.Duration
	if raw := c.Query("wait"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs < 0 {
			h.writeServiceError(c, chaterrors.ErrInvalidWait)
			return
		}
		wait = time.Duration(secs) * time.Second
	}

	msgs, err := h.svc.Poll(ctx, contextutil.GetUserID(ctx), partnerID, uint(lastID), wait)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"messages": msgs}, nil)
}
