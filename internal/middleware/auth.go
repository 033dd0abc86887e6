package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/server-craftsman/manage-post/internal/session"
)

// unexported, collision-proof context key
type recordContextKeyType struct{}

var recordKey = recordContextKeyType{}

// CurrentSession extracts the authenticated session record from
// context. ok is false for anonymous requests.
func CurrentSession(ctx context.Context) (*session.Record, bool) {
	rec, ok := ctx.Value(recordKey).(*session.Record)
	return rec, ok
}

type AuthMiddleware struct {
	Store session.Store
}

func NewAuthMiddleware(store session.Store) *AuthMiddleware {
	return &AuthMiddleware{Store: store}
}

// load resolves the session cookie to a record. A missing cookie, a
// missing record or a store failure all come back nil: the request
// proceeds anonymous, which mirrors startup rehydration of an absent
// or malformed persisted session.
func (a *AuthMiddleware) load(r *http.Request) *session.Record {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	rec, err := a.Store.Get(r.Context(), cookie.Value)
	if err != nil || rec == nil {
		return nil
	}

	if time.Now().After(rec.ExpiresAt) {
		_ = a.Store.Delete(r.Context(), cookie.Value)
		return nil
	}

	return rec
}

// Attach resolves the session, if any, and continues either way.
func (a *AuthMiddleware) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec := a.load(r); rec != nil {
			r = r.WithContext(context.WithValue(r.Context(), recordKey, rec))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects anonymous requests with 401.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := a.load(r)
		if rec == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), recordKey, rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects sessions whose user is not in the given role.
// Runs the same cookie resolution as RequireAuth first.
func (a *AuthMiddleware) RequireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := a.load(r)
		if rec == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if rec.User.Role != role {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), recordKey, rec)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
