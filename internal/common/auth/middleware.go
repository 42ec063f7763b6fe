package auth

import (
	"errors"
	"net/http"
	"strings"

	apperrors "livest/internal/common/errors"
	"livest/internal/common/logger"
)

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookieName == "" {
		return ""
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// Middleware attaches the session principal to the request context. Requests
// without a usable session continue anonymously; the operations decide
// whether that is acceptable.
func Middleware(store SessionStore, cookieName string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, cookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, err := store.Lookup(r.Context(), token)
			switch {
			case err == nil:
				r = r.WithContext(WithPrincipal(r.Context(), p))
			case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrInvalidSession):
				log.Debug("ignoring unusable session", map[string]interface{}{"error": err.Error()})
			default:
				log.Error("session lookup failed", map[string]interface{}{"error": err.Error()})
				apperrors.WriteError(w, apperrors.NewInternalError("session lookup failed", err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := RequireAny(FromContext(r.Context())); err != nil {
			apperrors.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
