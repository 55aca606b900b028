package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"knowledge-platform/internal/auth"
	"knowledge-platform/internal/config"

	"github.com/gin-gonic/gin"
)

func testAuthManager(t *testing.T) *auth.Manager {
	t.Helper()
	m, err := auth.NewManager(config.AuthConfig{JWTSecret: "secret", SessionTTL: time.Hour})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func gatedRouter(m *auth.Manager, now func() time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GateAt(m, now))
	r.GET("/chat", func(c *gin.Context) { c.Status(200) })
	r.GET("/api/me", func(c *gin.Context) {
		id, err := auth.IdentityFrom(c.Request.Context())
		if err != nil {
			c.JSON(500, gin.H{"error": "identity missing past gate"})
			return
		}
		c.JSON(200, gin.H{"user_id": id.UserID, "org_id": id.OrgID, "role": id.Role})
	})
	r.GET("/api/chats", func(c *gin.Context) { c.Status(200) })
	return r
}

func doReq(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGate_AnonymousPageRedirectsToLogin(t *testing.T) {
	r := gatedRouter(testAuthManager(t), time.Now)

	w := doReq(r, "/chat", "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected 302 to /login, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestGate_AnonymousAPIRejected401(t *testing.T) {
	r := gatedRouter(testAuthManager(t), time.Now)

	w := doReq(r, "/api/me", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGate_InjectsIdentityIntoContext(t *testing.T) {
	m := testAuthManager(t)
	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, auth.Identity{UserID: "u1", OrgID: "o1", Role: RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := gatedRouter(m, func() time.Time { return now.Add(time.Minute) })
	w := doReq(r, "/api/me", tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGate_ExpiredTokenIsUnauthenticatedNotForbidden(t *testing.T) {
	m := testAuthManager(t)
	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.Issue(now, auth.Identity{UserID: "u1", OrgID: "o1", Role: RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := gatedRouter(m, func() time.Time { return now.Add(3 * time.Hour) })

	w := doReq(r, "/api/chats", tok)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}

	w = doReq(r, "/chat", tok)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login for expired token, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestGate_TamperedTokenIsUnauthenticated(t *testing.T) {
	m := testAuthManager(t)
	now := time.Now()
	tok, err := m.Issue(now, auth.Identity{UserID: "u1", OrgID: "o1", Role: RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tampered := tok[:len(tok)-2] + "xx"

	r := gatedRouter(m, time.Now)
	w := doReq(r, "/api/chats", tampered)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered token, got %d", w.Code)
	}
}

func TestGate_SuperAdminRedirectedOffChatPage(t *testing.T) {
	m := testAuthManager(t)
	now := time.Now()
	tok, err := m.Issue(now, auth.Identity{UserID: "sa", Role: RoleSuperAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := gatedRouter(m, time.Now)
	w := doReq(r, "/chat", tok)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/super-admin" {
		t.Fatalf("expected redirect to /super-admin, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestGate_SessionCookieAccepted(t *testing.T) {
	m := testAuthManager(t)
	now := time.Now()
	tok, err := m.Issue(now, auth.Identity{UserID: "u1", OrgID: "o1", Role: RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := gatedRouter(m, time.Now)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: tok})
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 via cookie, got %d", w.Code)
	}
}
