package response

import (
	"net/http"

	"go-leaveflow/internal/domain"
	"go-leaveflow/internal/shared/apperror"
	"go-leaveflow/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
)

// ServiceError writes err in the envelope. Permission denials are answered
// with a 303 to the caller's landing page carrying the message as notice.
func ServiceError(c *gin.Context, err error) apperror.HTTPError {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Code == apperror.CodeForbidden {
		Forbidden(c, httpErr.Message)
		httpErr.Status = http.StatusSeeOther
		return httpErr
	}
	Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	return httpErr
}

// Forbidden redirects the caller to their role's landing page.
func Forbidden(c *gin.Context, notice string) {
	role := domain.Role(contextutil.GetRole(c.Request.Context()))
	RedirectWithNotice(c, http.StatusSeeOther, domain.LandingPath(role), apperror.CodeForbidden, notice)
}
