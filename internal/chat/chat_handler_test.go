package chat_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-leaveflow/internal/chat"
	chaterrors "go-leaveflow/internal/chat/errors"
	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeChatService struct {
	partnersFn func(ctx context.Context, callerID uint, role domain.Role) ([]chat.PartnerResponse, error)
	historyFn  func(ctx context.Context, callerID, partnerID uint) ([]chat.MessageResponse, error)
	sendFn     func(ctx context.Context, callerID uint, msg chat.Outgoing) (chat.MessageResponse, error)
	pollFn     func(ctx context.Context, callerID, partnerID, lastID uint, wait time.Duration) ([]chat.MessageResponse, error)
}

func (f *fakeChatService) Partners(ctx context.Context, callerID uint, role domain.Role) ([]chat.PartnerResponse, error) {
	return f.partnersFn(ctx, callerID, role)
}

func (f *fakeChatService) History(ctx context.Context, callerID, partnerID uint) ([]chat.MessageResponse, error) {
	return f.historyFn(ctx, callerID, partnerID)
}

func (f *fakeChatService) Send(ctx context.Context, callerID uint, msg chat.Outgoing) (chat.MessageResponse, error) {
	return f.sendFn(ctx, callerID, msg)
}

func (f *fakeChatService) Poll(ctx context.Context, callerID, partnerID, lastID uint, wait time.Duration) ([]chat.MessageResponse, error) {
	return f.pollFn(ctx, callerID, partnerID, lastID, wait)
}

func newChatRouter(svc chat.Service, userID uint, role domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		ctx = contextutil.WithRole(ctx, string(role))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	h := chat.NewHandler(svc)
	r.GET("/chat/users/", h.Users)
	r.GET("/chat/messages/:partner_id/", h.Messages)
	r.POST("/chat/send/", h.Send)
	r.GET("/chat/check/:partner_id/", h.Check)
	return r
}

func TestChatHandler_Users(t *testing.T) {
	svc := &fakeChatService{partnersFn: func(_ context.Context, callerID uint, role domain.Role) ([]chat.PartnerResponse, error) {
		assert.Equal(t, uint(10), callerID)
		assert.Equal(t, domain.RoleEmployee, role)
		return []chat.PartnerResponse{{ID: 2, Name: "Boss", Unread: 1}}, nil
	}}
	router := newChatRouter(svc, 10, domain.RoleEmployee)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/users/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var data struct {
		Users []chat.PartnerResponse `json:"users"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Users, 1)
	assert.Equal(t, int64(1), data.Users[0].Unread)
}

func TestChatHandler_Messages(t *testing.T) {
	svc := &fakeChatService{historyFn: func(_ context.Context, _, partnerID uint) ([]chat.MessageResponse, error) {
		if partnerID == 404 {
			return nil, chaterrors.ErrPartnerNotFound
		}
		return []chat.MessageResponse{{ID: 1, Message: "hi"}}, nil
	}}
	router := newChatRouter(svc, 10, domain.RoleEmployee)

	t.Run("ok", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/messages/2/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"messages":[`)
	})

	t.Run("bad partner id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/messages/abc/", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown partner", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/messages/404/", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, "User not found", env.Error.Message)
		}
	})
}

func TestChatHandler_Send(t *testing.T) {
	var got chat.Outgoing
	var gotBody string
	svc := &fakeChatService{sendFn: func(_ context.Context, callerID uint, msg chat.Outgoing) (chat.MessageResponse, error) {
		assert.Equal(t, uint(10), callerID)
		got = msg
		if am, ok := msg.(chat.AttachmentMessage); ok && am.File != nil {
			b, _ := io.ReadAll(am.File.Content)
			gotBody = string(b)
		}
		return chat.MessageResponse{ID: 5, IsMine: true}, nil
	}}
	router := newChatRouter(svc, 10, domain.RoleEmployee)

	t.Run("json text message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/chat/send/", strings.NewReader(`{"receiver_id":2,"message":"hello"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, chat.TextMessage{ReceiverID: 2, Message: "hello"}, got)
		assert.Contains(t, w.Body.String(), `"success":true`)
	})

	t.Run("multipart with attachment", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		assert.NoError(t, mw.WriteField("receiver_id", "2"))
		assert.NoError(t, mw.WriteField("message", "scan"))
		fw, err := mw.CreateFormFile("attachment", "note.pdf")
		assert.NoError(t, err)
		_, _ = fw.Write([]byte("%PDF-1.4"))
		assert.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/chat/send/", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		am, ok := got.(chat.AttachmentMessage)
		if assert.True(t, ok) {
			assert.Equal(t, uint(2), am.ReceiverID)
			assert.Equal(t, "scan", am.Message)
			if assert.NotNil(t, am.File) {
				assert.Equal(t, "note.pdf", am.File.Filename)
				assert.Equal(t, int64(8), am.File.Size)
			}
		}
		assert.Equal(t, "%PDF-1.4", gotBody)
	})

	t.Run("service rejection", func(t *testing.T) {
		svc.sendFn = func(context.Context, uint, chat.Outgoing) (chat.MessageResponse, error) {
			return chat.MessageResponse{}, chaterrors.ErrEmptyMessage
		}
		req := httptest.NewRequest(http.MethodPost, "/chat/send/", strings.NewReader(`{"receiver_id":2}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChatHandler_Check(t *testing.T) {
	svc := &fakeChatService{pollFn: func(_ context.Context, _, partnerID, lastID uint, wait time.Duration) ([]chat.MessageResponse, error) {
		assert.Equal(t, uint(2), partnerID)
		assert.Equal(t, uint(41), lastID)
		assert.Equal(t, 3*time.Second, wait)
		return []chat.MessageResponse{{ID: 42}}, nil
	}}
	router := newChatRouter(svc, 10, domain.RoleEmployee)

	t.Run("ok", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/check/2/?last_id=41&wait=3", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":42`)
	})

	for _, q := range []string{"last_id=x", "last_id=1&wait=-2", "last_id=1&wait=soon"} {
		t.Run("rejects "+q, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/chat/check/2/?"+q, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
