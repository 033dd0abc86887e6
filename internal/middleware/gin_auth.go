package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// bridge runs a net/http middleware wrapper inside a Gin chain. Auth
// decisions stay session-based and framework-agnostic.
func bridge(wrap func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r
			c.Next()
		})

		wrap(next).ServeHTTP(c.Writer, c.Request)

		// If the middleware already wrote a response, stop the Gin chain
		if c.Writer.Written() {
			c.Abort()
			return
		}
	}
}

// GinAttach resolves the session when present; anonymous requests pass.
func GinAttach(auth *AuthMiddleware) gin.HandlerFunc {
	return bridge(auth.Attach)
}

// GinRequireAuth rejects anonymous requests.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return bridge(auth.RequireAuth)
}

// GinRequireRole rejects anonymous requests and wrong-role sessions.
func GinRequireRole(auth *AuthMiddleware, role string) gin.HandlerFunc {
	return bridge(func(next http.Handler) http.Handler {
		return auth.RequireRole(role, next)
	})
}
