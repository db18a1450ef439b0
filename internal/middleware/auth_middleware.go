package middleware

import (
	"context"
	"strings"

	autherrors "go-leaveflow/internal/auth/errors"
	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/shared/contextutil"
	"go-leaveflow/internal/shared/response"
	"go-leaveflow/internal/shared/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"

	AccessTokenCookie = "access_token"
)

// TokenParser verifies access tokens.
type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

// AccountChecker confirms a token's subject still exists and may sign in.
// Satisfied by user.Repository.
type AccountChecker interface {
	IsActive(ctx context.Context, userID uint) (bool, error)
}

func bearerOrCookie(c *gin.Context) string {
	if tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found && tokenString != "" {
		return tokenString
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func attachClaims(c *gin.Context, claims *token.Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)

	ctx := c.Request.Context()
	ctx = contextutil.WithUserID(ctx, claims.UserID)
	ctx = contextutil.WithRole(ctx, claims.Role)
	reqLogger := contextutil.GetLogger(ctx, zap.L()).With(
		zap.Uint("user_id", claims.UserID),
		zap.String("role", claims.Role),
	)
	ctx = contextutil.WithLogger(ctx, reqLogger)
	c.Request = c.Request.WithContext(ctx)
}

// AuthMiddleware accepts a bearer token or the access_token cookie. With an
// AccountChecker, tokens of deleted or deactivated users stop working at once
// instead of at expiry.
func AuthMiddleware(parser TokenParser, accounts ...AccountChecker) gin.HandlerFunc {
	var checker AccountChecker
	if len(accounts) > 0 {
		checker = accounts[0]
	}
	return func(c *gin.Context) {
		tokenString := bearerOrCookie(c)
		if tokenString == "" {
			errObj := autherrors.ErrTokenNotFound
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, err := parser.Parse(tokenString)
		if err != nil {
			response.ServiceError(c, err)
			c.Abort()
			return
		}

		if !domain.ValidRole(claims.Role) {
			errObj := autherrors.ErrInvalidToken
			response.Error(c, errObj.HTTPStatus, errObj.Code, "Role not recognised in token", nil)
			c.Abort()
			return
		}

		if checker != nil {
			active, err := checker.IsActive(c.Request.Context(), claims.UserID)
			if err != nil {
				contextutil.GetLogger(c.Request.Context(), zap.L()).Error("account check failed",
					zap.Uint("user_id", claims.UserID),
					zap.Error(err),
				)
				response.ServiceError(c, err)
				c.Abort()
				return
			}
			if !active {
				errObj := autherrors.ErrInvalidToken
				response.Error(c, errObj.HTTPStatus, errObj.Code, "Account is no longer active", nil)
				c.Abort()
				return
			}
		}

		attachClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token of an active account
// is present and lets everyone else through as anonymous.
func OptionalAuth(parser TokenParser, accounts ...AccountChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerOrCookie(c); tokenString != "" {
			if claims, err := parser.Parse(tokenString); err == nil && domain.ValidRole(claims.Role) {
				if activeAccount(c.Request.Context(), accounts, claims.UserID) {
					attachClaims(c, claims)
				}
			}
		}
		c.Next()
	}
}

func activeAccount(ctx context.Context, accounts []AccountChecker, userID uint) bool {
	if len(accounts) == 0 {
		return true
	}
	active, err := accounts[0].IsActive(ctx, userID)
	return err == nil && active
}
