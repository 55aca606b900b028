package rbac

import (
	"net/http"
	"time"

	"knowledge-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

// Gate is the default-deny edge interceptor. It runs before routing-level
// handlers on every request: read the session, evaluate the route policy,
// short-circuit on deny, and inject verified identity on allow.
//
// Handlers behind the gate receive identity via auth.IdentityFrom and must
// still perform their own tenant-scope re-check; role gating here does not
// imply tenant scope.
func Gate(m *auth.Manager) gin.HandlerFunc {
	return GateAt(m, time.Now)
}

// GateAt is Gate with an injectable clock for deterministic tests.
func GateAt(m *auth.Manager, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id *auth.Identity

		// Missing, invalid, expired, or malformed tokens all collapse to
		// "no session"; the distinction never reaches the caller.
		if tok := auth.TokenFromRequest(c.Request); tok != "" {
			if cl, err := m.Verify(tok, now()); err == nil {
				v := auth.IdentityFromClaims(cl)
				id = &v
			}
		}

		d := Decide(id, c.Request.URL.Path)
		switch d.Outcome {
		case OutcomeRedirect:
			c.Redirect(http.StatusFound, d.Location)
			c.Abort()
			return
		case OutcomeReject:
			msg := "forbidden"
			if d.Status == http.StatusUnauthorized {
				msg = "authentication required"
			}
			c.AbortWithStatusJSON(d.Status, gin.H{"error": msg})
			return
		}

		if id != nil {
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), *id))
		}
		c.Next()
	}
}
