package httpapi

import (
	"net/http"

	"knowledge-platform/internal/org"

	"github.com/gin-gonic/gin"
)

// Organization management, super_admin only. The route gate already
// restricts /api/super-admin to super_admin; the org service re-checks.

func (h Handlers) CreateOrg(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var in org.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := h.Orgs.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, err)
		return
	}
	if h.Audit != nil {
		_ = h.Audit.LogAdminAction(c.Request.Context(), o.ID, actor.UserID, actor.Role, c.ClientIP(), "organization created", "")
	}
	c.JSON(http.StatusCreated, o)
}

func (h Handlers) ListOrgs(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	os, err := h.Orgs.List(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizations": os})
}

func (h Handlers) GetOrg(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	o, err := h.Orgs.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h Handlers) UpdateOrg(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var in org.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := h.Orgs.Update(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h Handlers) DeleteOrg(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	if err := h.Orgs.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
