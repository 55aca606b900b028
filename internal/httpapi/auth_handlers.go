package httpapi

import (
	"net/http"

	"knowledge-platform/internal/auth"
	"knowledge-platform/internal/rbac"
	"knowledge-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string   `json:"token"`
	Home  string   `json:"home"`
	User  userView `json:"user"`
}

type userView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	OrgID       string `json:"org_id,omitempty"`
	Role        string `json:"role"`
}

func viewOf(id auth.Identity) userView {
	return userView{
		ID:          id.UserID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		OrgID:       id.OrgID,
		Role:        id.Role,
	}
}

// Login validates credentials and opens a session. The token is returned
// in the body for API clients and set as an HTTP-only cookie for pages.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	ip := c.ClientIP()
	if h.Limiter != nil && !h.Limiter.Allow(c.Request.Context(), req.Email, ip) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts"})
		return
	}

	id, err := h.Verifier.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if h.Audit != nil {
			_ = h.Audit.LogLoginFailure(c.Request.Context(), req.Email, ip)
		}
		writeError(c, err)
		return
	}

	token, err := h.Auth.Issue(h.now(), id)
	if err != nil {
		logger.FromGin(c).Error("token issuance failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if h.Limiter != nil {
		h.Limiter.Reset(c.Request.Context(), req.Email, ip)
	}
	if h.Audit != nil {
		_ = h.Audit.LogLoginSuccess(c.Request.Context(), id.OrgID, id.UserID, id.Role, ip)
	}

	auth.SetSessionCookie(c.Writer, token, int(h.SessionTTL.Seconds()), h.SecureCookies)
	c.JSON(http.StatusOK, sessionResponse{
		Token: token,
		Home:  rbac.HomePath(id.Role),
		User:  viewOf(id),
	})
}

// Logout clears the session cookie. The token itself stays valid until it
// expires; no server-side revocation list is kept.
func (h Handlers) Logout(c *gin.Context) {
	auth.ClearSessionCookie(c.Writer, h.SecureCookies)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Me returns the authenticated caller's identity.
func (h Handlers) Me(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": viewOf(id),
		"home": rbac.HomePath(id.Role),
	})
}
