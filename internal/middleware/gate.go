package middleware

import (
	"net/http"
	"strings"

	"github.com/ghaggin/eduarchive/internal/auth"
	"github.com/ghaggin/eduarchive/internal/metrics"
	"github.com/ghaggin/eduarchive/internal/model"
	"go.uber.org/zap"
)

const (
	LoginPath          = "/login"
	RegisterPath       = "/register"
	DashboardPath      = "/dashboard"
	AdminDashboardPath = "/admin/dashboard"

	adminPrefix     = "/admin"
	publicAPIPrefix = "/api/public"
)

const (
	DecisionSkip                   = "skip"
	DecisionPass                   = "pass"
	DecisionRedirectLogin          = "redirect_login"
	DecisionRedirectDashboard      = "redirect_dashboard"
	DecisionRedirectAdminDashboard = "redirect_admin_dashboard"
)

var publicPaths = map[string]bool{
	"/":                true,
	LoginPath:          true,
	RegisterPath:       true,
	"/forgot-password": true,
	"/contact":         true,
}

// Static assets never go through the gate.
var excludedPrefixes = []string{"/static/", "/_image/"}

func excluded(path string) bool {
	if path == "/favicon.ico" || strings.HasSuffix(path, ".png") {
		return true
	}
	for _, p := range excludedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isPublic(path string) bool {
	return publicPaths[path] || underPrefix(path, publicAPIPrefix)
}

// Decide is the gate policy as a pure function of the path and the two
// cookies. It returns the decision and, for redirects, the target path.
func Decide(path string, hasToken bool, role model.Role) (string, string) {
	if excluded(path) {
		return DecisionSkip, ""
	}

	// Signed-in users are bounced off the auth forms even though the forms
	// are public.
	if hasToken && (path == LoginPath || path == RegisterPath) {
		if role.IsAdmin() {
			return DecisionRedirectAdminDashboard, AdminDashboardPath
		}
		return DecisionRedirectDashboard, DashboardPath
	}

	if isPublic(path) {
		return DecisionPass, ""
	}

	if !hasToken {
		return DecisionRedirectLogin, LoginPath
	}

	if underPrefix(path, adminPrefix) && !role.IsAdmin() {
		return DecisionRedirectDashboard, DashboardPath
	}

	return DecisionPass, ""
}

// Gate is the route gate. It runs before any handler and only looks at
// cookies; it trusts the plaintext role cookie and never checks the token
// signature. That makes it a navigation shortcut, not a security boundary:
// protected handlers must still sit behind Authn.RequireSession.
type Gate struct {
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewGate(m *metrics.Metrics, log *zap.Logger) *Gate {
	return &Gate{metrics: m, log: log}
}

func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasToken := false
		if c, err := r.Cookie(auth.TokenCookie); err == nil && c.Value != "" {
			hasToken = true
		}
		role := model.RoleUnknown
		if c, err := r.Cookie(auth.RoleCookie); err == nil {
			role = model.ParseRole(c.Value)
		}

		decision, location := Decide(r.URL.Path, hasToken, role)
		if decision != DecisionSkip {
			g.metrics.GateDecision(decision)
		}

		if location == "" {
			next.ServeHTTP(w, r)
			return
		}

		g.log.Debug("route gate redirect",
			zap.String("path", r.URL.Path),
			zap.String("decision", decision),
		)
		http.Redirect(w, r, location, http.StatusTemporaryRedirect)
	})
}
