package middleware

import (
	"net/http"
	"net/url"

	"barangaylink/gate"

	"github.com/gin-gonic/gin"
)

// Context keys set for admitted requests.
const (
	ProfileIDKey    = "profileID"
	ProfileEmailKey = "profileEmail"
)

// GateMiddleware evaluates the access gate for a protected destination and
// renders the decision: admitted requests proceed, everything else is a
// silent redirect (or a blocking placeholder while authentication state is
// unresolved). Denials carry no detail about why.
func GateMiddleware(g *gate.Gate, req gate.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		d := g.Evaluate(c.Request.Context(), sess, req, c.Request.URL.Path)

		switch d.Outcome {
		case gate.OutcomeAdmitted:
			c.Set(ProfileIDKey, sess.UID)
			c.Set(ProfileEmailKey, sess.Email)
			c.Next()

		case gate.OutcomeUnresolved:
			// Authentication state not yet determined; hold, don't redirect.
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"status": "resolving",
			})

		case gate.OutcomeDeclined:
			target := d.RedirectTo
			if d.Reason != "" {
				target += "?reason=" + url.QueryEscape(d.Reason)
			}
			c.Redirect(http.StatusFound, target)
			c.Abort()

		default:
			c.Redirect(http.StatusFound, d.RedirectTo)
			c.Abort()
		}
	}
}

// ProfileIDFrom returns the admitted requester's profile id.
func ProfileIDFrom(c *gin.Context) string {
	return c.GetString(ProfileIDKey)
}

// ProfileEmailFrom returns the admitted requester's email.
func ProfileEmailFrom(c *gin.Context) string {
	return c.GetString(ProfileEmailKey)
}
