package middleware

import (
	"strings"

	"barangaylink/gate"
	"barangaylink/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionKey is the gin context key carrying the resolved gate.Session.
const SessionKey = "session"

// SessionMiddleware resolves the Authorization header into a gate.Session.
// It never rejects a request itself; admission is the gate's job. Resident
// sessions are identity-provider ID tokens, staff sessions are local HS256
// tokens, tried in that order.
func SessionMiddleware(verifier *auth.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := gate.Session{Resolved: true}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Set(SessionKey, sess)
			c.Next()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		// Staff tokens are local; check them first so a verifier outage
		// cannot lock administrators out.
		if sub, email, err := utils.ExtractSessionFromToken(tokenString); err == nil {
			sess.Authenticated = true
			sess.UID = sub
			sess.Email = email
			c.Set(SessionKey, sess)
			c.Next()
			return
		}

		if verifier == nil {
			// A token was presented but the identity provider is not
			// configured: authentication state cannot be determined yet.
			sess.Resolved = false
			c.Set(SessionKey, sess)
			c.Next()
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			utils.GetLogger().Debug("ID token verification failed", zap.Error(err))
			c.Set(SessionKey, sess)
			c.Next()
			return
		}

		sess.Authenticated = true
		sess.UID = token.UID
		if email, ok := token.Claims["email"].(string); ok {
			sess.Email = email
		}
		c.Set(SessionKey, sess)
		c.Next()
	}
}

// SessionFrom extracts the resolved session from the gin context.
func SessionFrom(c *gin.Context) gate.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return gate.Session{}
	}
	sess, _ := v.(gate.Session)
	return sess
}
