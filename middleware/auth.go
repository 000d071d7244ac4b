package middleware

import (
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/loan-approval/userctx"
)

// Session keys
const (
	SessionUsernameKey = "username"
	SessionRedirectKey = "redirect_after_login"
	SessionStateKey    = "state"
)

// LoadIdentity copies the username stored in the session into the request
// context. Requests without a session identity continue anonymously.
func LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)
		if sess != nil {
			if username, ok := sess.Get(SessionUsernameKey).(string); ok && username != "" {
				r = r.WithContext(userctx.SetUsername(r.Context(), username))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth ensures the user is authenticated
// If not authenticated, redirects to /login and stores the intended destination
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userctx.IsAuthenticated(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}

		if sess := session.GetSession(r); sess != nil && r.Method == http.MethodGet {
			// Store the intended destination for redirect after login
			_ = sess.Set(SessionRedirectKey, r.URL.RequestURI())
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
}
