package httpapi

import (
	"net/http"

	"knowledge-platform/internal/chat"
	"knowledge-platform/internal/document"

	"github.com/gin-gonic/gin"
)

// --- Chats ---

// CreateChat opens a chat in the workspace named by the path.
func (h Handlers) CreateChat(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var in chat.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	in.WorkspaceID = c.Param("id")
	ch, err := h.Chats.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h Handlers) ListChats(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	cs, err := h.Chats.List(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"chats": cs})
}

func (h Handlers) GetChat(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	ch, err := h.Chats.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h Handlers) DeleteChat(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	if err := h.Chats.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h Handlers) ListChatMessages(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	msgs, err := h.Chats.Messages(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

type askRequest struct {
	Question string `json:"question"`
}

// AskChat forwards the question to the answering backend and returns the
// assistant's reply. Both sides of the exchange are stored atomically.
func (h Handlers) AskChat(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	answer, err := h.Chats.Ask(c.Request.Context(), actor, c.Param("id"), req.Question)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// --- Documents ---

func (h Handlers) CreateDocument(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	var in document.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	in.WorkspaceID = c.Param("id")
	d, err := h.Documents.Create(c.Request.Context(), actor, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// ListDocumentsOfWorkspace lists document metadata for one workspace the
// caller can use.
func (h Handlers) ListDocumentsOfWorkspace(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	ds, err := h.Documents.List(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": ds})
}

func (h Handlers) DeleteDocument(c *gin.Context) {
	actor, ok := identity(c)
	if !ok {
		return
	}
	if err := h.Documents.Delete(c.Request.Context(), actor, c.Param("doc_id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
