package httpapi

import (
	"errors"
	"net/http"
	"time"

	"knowledge-platform/internal/audit"
	"knowledge-platform/internal/auth"
	"knowledge-platform/internal/chat"
	"knowledge-platform/internal/document"
	"knowledge-platform/internal/org"
	"knowledge-platform/internal/qa"
	"knowledge-platform/internal/reporting"
	"knowledge-platform/internal/user"
	"knowledge-platform/internal/workspace"
	"knowledge-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth     *auth.Manager
	Verifier *auth.Verifier
	Limiter  *auth.LoginLimiter

	Orgs       *org.Service
	Users      *user.Service
	Workspaces *workspace.Service
	Chats      *chat.Service
	Documents  *document.Service
	Reports    *reporting.Service
	Audit      *audit.Service

	// SecureCookies marks session cookies Secure; on in production.
	SecureCookies bool
	// SessionTTL drives the session cookie max-age.
	SessionTTL time.Duration

	// Now is injectable for deterministic tests.
	Now func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// identity pulls the authenticated caller from the request context. The
// route gate has already run; a missing identity on a protected route is
// a programming error, not a user error.
func identity(c *gin.Context) (auth.Identity, bool) {
	id, err := auth.IdentityFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return auth.Identity{}, false
	}
	return id, true
}

// writeError maps service errors onto HTTP statuses. Anything unmapped is
// a 500 and gets logged; the body stays generic.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case isNotFound(err):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case isInvalidArgument(err):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case isForbidden(err):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, qa.ErrUnavailable):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "answering service unavailable"})
	case errors.Is(err, user.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "email already registered"})
	default:
		logger.FromGin(c).Error("request failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, org.ErrNotFound) ||
		errors.Is(err, user.ErrNotFound) ||
		errors.Is(err, workspace.ErrNotFound) ||
		errors.Is(err, chat.ErrNotFound) ||
		errors.Is(err, document.ErrNotFound)
}

func isInvalidArgument(err error) bool {
	return errors.Is(err, org.ErrInvalidArgument) ||
		errors.Is(err, user.ErrInvalidArgument) ||
		errors.Is(err, workspace.ErrInvalidArgument) ||
		errors.Is(err, chat.ErrInvalidArgument) ||
		errors.Is(err, document.ErrInvalidArgument) ||
		errors.Is(err, reporting.ErrInvalidRequest)
}

func isForbidden(err error) bool {
	return errors.Is(err, org.ErrForbidden) || errors.Is(err, user.ErrForbidden)
}
