package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Page handlers render minimal shells; the front-end bundle takes over in
// the browser. The route gate has already decided who may see which page,
// so none of these check roles again.

func pageHTML(title string) string {
	return `<!doctype html><html><head><meta charset="utf-8"><title>` + title +
		`</title></head><body><div id="app" data-page="` + title + `"></div></body></html>`
}

func (h Handlers) LoginPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(pageHTML("login")))
}

func (h Handlers) ChatPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(pageHTML("chat")))
}

func (h Handlers) AdminPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(pageHTML("admin")))
}

func (h Handlers) SuperAdminPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(pageHTML("super-admin")))
}

// Healthz reports liveness. Open to anonymous callers.
func (h Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
