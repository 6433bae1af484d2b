package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/ghaggin/eduarchive/internal/account"
	"github.com/ghaggin/eduarchive/internal/auth"
	"github.com/ghaggin/eduarchive/internal/model"
	"github.com/ghaggin/eduarchive/internal/repository"
	"go.uber.org/zap"
)

type profileRequest struct {
	Name  string `json:"name" validate:"omitempty,max=100"`
	Email string `json:"email" validate:"omitempty,email"`
}

type subscriptionRequest struct {
	Plan   string     `json:"plan" validate:"required"`
	Expiry *time.Time `json:"expiry"`
}

func (h *handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	s := auth.SessionFromContext(r.Context())

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid name or email")
		return
	}
	if req.Name == "" && req.Email == "" {
		writeError(w, http.StatusBadRequest, "Nothing to update")
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), s.SubjectID, req.Name, req.Email)
	h.respondUser(w, user, err)
}

func (h *handlers) updateSubscription(w http.ResponseWriter, r *http.Request) {
	s := auth.SessionFromContext(r.Context())

	var req subscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid subscription plan")
		return
	}

	user, err := h.accounts.UpdateSubscription(r.Context(), s.SubjectID, req.Plan, req.Expiry)
	h.respondUser(w, user, err)
}

// respondUser maps an account update result to a response. On success the
// session is reissued so the token carries the new claims.
func (h *handlers) respondUser(w http.ResponseWriter, user *model.User, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidPlan):
		writeError(w, http.StatusBadRequest, "Invalid subscription plan")
		return
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, http.StatusConflict, msgEmailTaken)
		return
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
		return
	case err != nil:
		h.log.Error("update user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	s := user.Session()
	if !h.bindSession(w, s) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": s})
}
