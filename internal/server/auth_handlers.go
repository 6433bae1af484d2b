package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ghaggin/eduarchive/internal/account"
	"github.com/ghaggin/eduarchive/internal/auth"
	"github.com/ghaggin/eduarchive/internal/repository"
	"github.com/ghaggin/eduarchive/internal/template"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	msgLoginRequired    = "Email and password are required"
	msgInvalidLogin     = "Invalid email or password"
	msgRegisterRequired = "Name, email, and password are required"
	msgPasswordShort    = "Password must be at least 8 characters"
	msgEmailTaken       = "User with this email already exists"
	msgInvalidBody      = "Invalid request body"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// decode reads r into target from either a JSON body or a form.
func decode(r *http.Request, target any, fromForm func()) error {
	if isFormPost(r) {
		if err := r.ParseForm(); err != nil {
			return err
		}
		fromForm()
		return nil
	}
	return decodeJSON(r, target)
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decode(r, &req, func() {
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	})
	if err != nil {
		h.authFailure(w, r, "login.html", http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.authFailure(w, r, "login.html", http.StatusBadRequest, msgLoginRequired)
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, account.ErrInvalidCredentials) {
		h.authFailure(w, r, "login.html", http.StatusUnauthorized, msgInvalidLogin)
		return
	}
	if err != nil {
		h.log.Error("authenticate", zap.Error(err))
		h.authFailure(w, r, "login.html", http.StatusInternalServerError, "Authentication failed")
		return
	}

	s := user.Session()
	if !h.bindSession(w, s) {
		return
	}
	h.log.Info("login", zap.String("subject", s.SubjectID), zap.String("role", string(s.Role)))

	if isFormPost(r) {
		http.Redirect(w, r, dashboardFor(s), http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": s})
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decode(r, &req, func() {
		req.Name = r.PostFormValue("name")
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	})
	if err != nil {
		h.authFailure(w, r, "register.html", http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		msg := msgRegisterRequired
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() == "min" {
			msg = msgPasswordShort
		}
		h.authFailure(w, r, "register.html", http.StatusBadRequest, msg)
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, repository.ErrDuplicate) {
		h.authFailure(w, r, "register.html", http.StatusConflict, msgEmailTaken)
		return
	}
	if err != nil {
		h.log.Error("register", zap.Error(err))
		h.authFailure(w, r, "register.html", http.StatusInternalServerError, "Registration failed")
		return
	}

	s := user.Session()
	if !h.bindSession(w, s) {
		return
	}

	if isFormPost(r) {
		http.Redirect(w, r, dashboardFor(s), http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": s})
}

// authFailure answers a failed login or register in the form the client
// used.
func (h *handlers) authFailure(w http.ResponseWriter, r *http.Request, tmpl string, status int, msg string) {
	if !isFormPost(r) {
		writeError(w, status, msg)
		return
	}
	td := template.NewData(strings.TrimSuffix(tmpl, ".html"), nil)
	td.Error = msg
	h.render(w, status, tmpl, td)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.binder.Unbind(w)
	if isFormPost(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": auth.SessionFromContext(r.Context())})
}
