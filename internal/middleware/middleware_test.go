package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/rbac"
	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/response"
	"go-leaveflow/internal/shared/token"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type apiError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
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

func withCaller(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := contextutil.WithUserID(c.Request.Context(), userID)
		ctx = contextutil.WithRole(ctx, role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := token.NewManager("test-secret", time.Hour)

	router := gin.New()
	router.Use(ContextLogger(zap.NewNop()), AuthMiddleware(tokens))
	router.GET("/auth/me", func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"user_id": contextutil.GetUserID(ctx),
			"role":    contextutil.GetRole(ctx),
		})
	})

	t.Run("bearer token", func(t *testing.T) {
		signed, _, err := tokens.Issue(12, "manager")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":12,"role":"manager"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("cookie token", func(t *testing.T) {
		signed, _, err := tokens.Issue(3, "employee")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: signed})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":3,"role":"employee"}`, w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		signed, _, err := tokens.Issue(5, "superuser")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type fakeAccounts struct {
	active map[uint]bool
	err    error
}

func (f fakeAccounts) IsActive(_ context.Context, userID uint) (bool, error) {
	return f.active[userID], f.err
}

func TestAuthMiddleware_AccountCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := token.NewManager("test-secret", time.Hour)

	call := func(accounts AccountChecker, userID uint) *httptest.ResponseRecorder {
		router := gin.New()
		router.Use(AuthMiddleware(tokens, accounts))
		router.GET("/auth/me", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		signed, _, err := tokens.Issue(userID, "employee")
		assert.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("active account passes", func(t *testing.T) {
		w := call(fakeAccounts{active: map[uint]bool{3: true}}, 3)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("deleted or deactivated account is rejected", func(t *testing.T) {
		w := call(fakeAccounts{active: map[uint]bool{3: false}}, 3)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
		assert.Equal(t, "Account is no longer active", env.Error.Message)

		w = call(fakeAccounts{active: map[uint]bool{}}, 99)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("lookup failure is a server error", func(t *testing.T) {
		w := call(fakeAccounts{err: errors.New("db down")}, 3)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("optional auth treats inactive caller as anonymous", func(t *testing.T) {
		router := gin.New()
		router.Use(OptionalAuth(tokens, fakeAccounts{active: map[uint]bool{}}))
		router.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, contextutil.GetRole(c.Request.Context()))
		})

		signed, _, err := tokens.Issue(4, "admin")
		assert.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: signed})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "", w.Body.String())
	})
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := token.NewManager("test-secret", time.Hour)

	router := gin.New()
	router.Use(OptionalAuth(tokens))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRole(c.Request.Context()))
	})

	signed, _, err := tokens.Issue(4, "admin")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: signed})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", w.Body.String())
}

func TestRequireCapability(t *testing.T) {
	gin.SetMode(gin.TestMode)

	enforcer, err := rbac.NewEnforcer(rbac.NewPolicyAdapter())
	assert.NoError(t, err)
	svc := rbac.NewService(enforcer)

	newRouter := func(role string) *gin.Engine {
		router := gin.New()
		router.Use(withCaller(1, role))
		router.GET("/leaves/history/",
			RequireCapability(svc, domain.ResourceLeave, domain.ActionHistory),
			func(c *gin.Context) { response.Success(c, http.StatusOK, gin.H{"ok": true}, nil) },
		)
		return router
	}

	t.Run("manager admitted", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter("manager").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/history/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("employee redirected with notice", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter("employee").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/history/", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/dashboard/employee/?notice=")
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
		assert.Equal(t, deniedNotice, env.Error.Message)
	})

	t.Run("admin redirected to admin dashboard", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter("admin").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/history/", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/dashboard/admin/")
	})
}

func TestRequireAnyCapability(t *testing.T) {
	gin.SetMode(gin.TestMode)

	enforcer, err := rbac.NewEnforcer(rbac.NewPolicyAdapter())
	assert.NoError(t, err)
	svc := rbac.NewService(enforcer)

	guard := RequireAnyCapability(svc,
		domain.Capability{Resource: domain.ResourceLeave, Action: domain.ActionReadAll},
		domain.Capability{Resource: domain.ResourceLeave, Action: domain.ActionReadTeam},
	)

	tests := []struct {
		role   string
		status int
	}{
		{"admin", http.StatusOK},
		{"manager", http.StatusOK},
		{"employee", http.StatusSeeOther},
		{"member", http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			router := gin.New()
			router.Use(withCaller(1, tt.role))
			router.GET("/leaves/all/", guard, func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/all/", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	const (
		path     = "/leaves/request/"
		cacheKey = "idemp:/leaves/request/:7:abc"
		lockKey  = cacheKey + ":lock"
	)

	newRouter := func(calls *int, rdbMock func() gin.HandlerFunc) *gin.Engine {
		router := gin.New()
		router.Use(withCaller(7, "employee"), rdbMock())
		router.POST(path, func(c *gin.Context) {
			*calls++
			response.Success(c, http.StatusCreated, gin.H{"id": 1}, nil)
		})
		return router
	}

	expectedBody, _ := json.Marshal(response.ApiEnvelope{Ok: true, Data: gin.H{"id": 1}})
	stored, _ := json.Marshal(cachedResponse{
		Status:      http.StatusCreated,
		ContentType: "application/json; charset=utf-8",
		Body:        expectedBody,
	})

	t.Run("first request stores response", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(true)
		mock.ExpectSet(cacheKey, stored, idempotencyReplayTTL).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		calls := 0
		router := newRouter(&calls, func() gin.HandlerFunc { return Idempotency(db) })

		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(IdempotencyHeader, "abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay skips handler", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(string(stored))

		calls := 0
		router := newRouter(&calls, func() gin.HandlerFunc { return Idempotency(db) })

		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(IdempotencyHeader, "abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 0, calls)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, string(expectedBody), w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in flight duplicate conflicts", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(false)

		calls := 0
		router := newRouter(&calls, func() gin.HandlerFunc { return Idempotency(db) })

		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(IdempotencyHeader, "abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no header passes through", func(t *testing.T) {
		db, mock := redismock.NewClientMock()

		calls := 0
		router := newRouter(&calls, func() gin.HandlerFunc { return Idempotency(db) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/auth/login", RateLimitByIP(0.0001, 2), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
