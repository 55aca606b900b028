package httpapi

import (
	"errors"
	"net/http"
	"time"

	"knowledge-platform/internal/reporting"
	"knowledge-platform/internal/user"
	"knowledge-platform/internal/workspace"

	"github.com/gin-gonic/gin"
)

// --- Users (org administration) ---

func (h Handlers) CreateUser(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var in user.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := h.Users.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, err)
		return
	}
	if h.Audit != nil {
		_ = h.Audit.LogAdminAction(c.Request.Context(), u.OrgID, actor.UserID, actor.Role, c.ClientIP(), "user created", "")
	}
	c.JSON(http.StatusCreated, u)
}

func (h Handlers) ListUsers(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	us, err := h.Users.List(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": us})
}

func (h Handlers) GetUser(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	u, err := h.Users.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h Handlers) UpdateUser(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var in user.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := h.Users.Update(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUser removes the account together with its grants, chats and
// messages in one atomic operation.
func (h Handlers) DeleteUser(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Users.Delete(c.Request.Context(), actor, id); err != nil {
		writeError(c, err)
		return
	}
	if h.Audit != nil {
		_ = h.Audit.LogUserDeleted(c.Request.Context(), actor.OrgID, actor.UserID, actor.Role, c.ClientIP(), id)
	}
	c.Status(http.StatusNoContent)
}

// --- Workspaces ---

func (h Handlers) CreateWorkspace(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var in workspace.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	w, err := h.Workspaces.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h Handlers) ListWorkspaces(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	ws, err := h.Workspaces.List(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": ws})
}

func (h Handlers) GetWorkspace(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	w, err := h.Workspaces.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h Handlers) UpdateWorkspace(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var in workspace.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	w, err := h.Workspaces.Update(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h Handlers) DeleteWorkspace(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	if err := h.Workspaces.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Workspace grants ---

func (h Handlers) GrantWorkspaceAccess(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var in workspace.GrantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	g, err := h.Workspaces.GrantAccess(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	if h.Audit != nil {
		_ = h.Audit.LogAdminAction(c.Request.Context(), g.OrgID, actor.UserID, actor.Role, c.ClientIP(), "workspace access granted", "")
	}
	c.JSON(http.StatusCreated, g)
}

func (h Handlers) RevokeWorkspaceAccess(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	if err := h.Workspaces.RevokeAccess(c.Request.Context(), actor, c.Param("id"), c.Param("user_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h Handlers) ListWorkspaceGrants(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	gs, err := h.Workspaces.Grants(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grants": gs})
}

// --- Reports ---

// UsageReport aggregates tenant activity. The window defaults to the
// trailing 30 days when from/to are absent.
func (h Handlers) UsageReport(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	orgID := actor.OrgID
	if orgID == "" {
		// super_admin picks the tenant explicitly.
		orgID = c.Query("org_id")
	}

	rng, err := parseRange(c, h.now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sum, err := h.Reports.UsageSummary(c.Request.Context(), reporting.UsageSummaryRequest{OrgID: orgID, Range: rng})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h Handlers) WorkspaceActivityReport(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	orgID := actor.OrgID
	if orgID == "" {
		orgID = c.Query("org_id")
	}

	rng, err := parseRange(c, h.now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.Reports.PerWorkspace(c.Request.Context(), reporting.WorkspaceActivityRequest{OrgID: orgID, Range: rng})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": rows})
}

var errInvalidTime = errors.New("from/to must be RFC 3339 timestamps")

func parseRange(c *gin.Context, now time.Time) (reporting.TimeRange, error) {
	rng := reporting.TimeRange{From: now.AddDate(0, 0, -30), To: now}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return reporting.TimeRange{}, errInvalidTime
		}
		rng.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return reporting.TimeRange{}, errInvalidTime
		}
		rng.To = t
	}
	return rng, nil
}
