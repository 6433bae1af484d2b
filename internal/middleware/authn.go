package middleware

import (
	"net/http"

	"github.com/ghaggin/eduarchive/internal/auth"
	"github.com/ghaggin/eduarchive/internal/httpx"
	"github.com/ghaggin/eduarchive/internal/model"
	"go.uber.org/zap"
)

// Authn is the authoritative check. It verifies the signed token on every
// request it guards and never looks at the role cookie.
type Authn struct {
	verifier auth.Verifier
	binder   *auth.Binder
	log      *zap.Logger
}

func NewAuthn(v auth.Verifier, b *auth.Binder, log *zap.Logger) *Authn {
	return &Authn{verifier: v, binder: b, log: log}
}

// RequireSession puts the verified session in the request context. Missing
// and invalid tokens are treated alike: cookies are cleared and the caller
// is sent to the login page, or gets a 401 on the API.
func (a *Authn) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := a.verifier.Verify(auth.TokenFromRequest(r))
		if s == nil {
			a.binder.Unbind(w)
			if httpx.IsAPI(r) {
				httpx.Error(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), s)))
	})
}

// RequireAdmin must run after RequireSession.
func (a *Authn) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := auth.SessionFromContext(r.Context())
		if !model.IsAdmin(s) {
			if s != nil {
				a.log.Warn("non-admin session refused on admin route",
					zap.String("subject", s.SubjectID),
					zap.String("role", string(s.Role)),
					zap.String("path", r.URL.Path),
				)
			}
			if httpx.IsAPI(r) {
				httpx.Error(w, http.StatusForbidden, "Forbidden")
				return
			}
			http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}
