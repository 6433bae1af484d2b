package server

import (
	"mime"
	"net/http"

	"github.com/ghaggin/eduarchive/internal/auth"
	"github.com/ghaggin/eduarchive/internal/httpx"
	"github.com/ghaggin/eduarchive/internal/model"
	"github.com/ghaggin/eduarchive/internal/template"
	"go.uber.org/zap"
)

const msgInternal = "Internal server error"

func writeJSON(w http.ResponseWriter, status int, data any) {
	httpx.JSON(w, status, data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	httpx.Error(w, status, msg)
}

// isFormPost reports whether r is a plain browser form submission. Those get
// pages and redirects back; everything else gets JSON.
func isFormPost(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}

func (h *handlers) page(tmpl, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.render(w, http.StatusOK, tmpl, template.NewData(title, auth.CurrentSession(r, h.issuer)))
	}
}

func (h *handlers) render(w http.ResponseWriter, status int, tmpl string, td *template.Data) {
	if err := template.Render(w, status, tmpl, td); err != nil {
		h.log.Error("render template", zap.String("template", tmpl), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// bindSession issues a fresh token for s and sets both auth cookies. Both
// cookies always come from the same session so the role hint cannot drift
// from the token.
func (h *handlers) bindSession(w http.ResponseWriter, s *model.Session) bool {
	token, err := h.issuer.Issue(s)
	if err != nil {
		h.log.Error("issue session token", zap.String("subject", s.SubjectID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
		return false
	}

	h.binder.Bind(w, token, s)
	return true
}

func dashboardFor(s *model.Session) string {
	if model.IsAdmin(s) {
		return "/admin/dashboard"
	}
	return "/dashboard"
}

func decodeJSON(r *http.Request, target any) error {
	return httpx.DecodeJSON(r, target)
}
