package server

import (
	"errors"
	"net/http"

	"github.com/ghaggin/eduarchive/internal/auth"
	"github.com/ghaggin/eduarchive/internal/middleware"
	"github.com/ghaggin/eduarchive/internal/model"
	"github.com/ghaggin/eduarchive/internal/payment"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type applyPlanRequest struct {
	PlanID        string `json:"planId" validate:"required,oneof=free basic premium"`
	BillingPeriod string `json:"billingPeriod" validate:"omitempty,oneof=monthly yearly"`
}

func (h *handlers) paymentConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.payments.Config())
}

func (h *handlers) createOrder(w http.ResponseWriter, r *http.Request) {
	var req payment.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	order, err := h.payments.CreateOrder(req)
	if errors.Is(err, payment.ErrAmountRequired) {
		writeError(w, http.StatusBadRequest, "Amount is required")
		return
	}
	if err != nil {
		h.log.Error("create order", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create order")
		return
	}

	h.checkout.PutPendingOrder(r.Context(), order)
	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *handlers) verifyPayment(w http.ResponseWriter, r *http.Request) {
	var req payment.VerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	err := h.payments.Verify(req)
	switch {
	case errors.Is(err, payment.ErrMissingParams):
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	case errors.Is(err, payment.ErrInvalidSignature):
		h.log.Warn("payment signature mismatch", zap.String("order_id", req.OrderID))
		writeError(w, http.StatusBadRequest, "Invalid payment signature")
		return
	case err != nil:
		h.log.Error("verify payment", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to verify payment")
		return
	}

	pending, err := h.checkout.PendingOrder(r.Context())
	if errors.Is(err, middleware.ErrNoPendingOrder) || (err == nil && pending.ID != req.OrderID) {
		writeError(w, http.StatusBadRequest, "Unknown order")
		return
	}
	if err != nil {
		h.log.Error("load pending order", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to verify payment")
		return
	}
	h.checkout.ClearPendingOrder(r.Context())

	msg := "Payment verified successfully"
	if payment.IsDemoOrder(req.OrderID) {
		msg += " (Demo Mode)"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   msg,
		"orderId":   req.OrderID,
		"paymentId": req.PaymentID,
	})
}

// applyPlan moves the current user onto a plan and reissues the session so
// the new tier is visible immediately.
func (h *handlers) applyPlan(w http.ResponseWriter, r *http.Request) {
	s := auth.SessionFromContext(r.Context())

	var req applyPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	tier := model.ParseTier(req.PlanID)
	period, ok := model.ParseBillingPeriod(req.BillingPeriod)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid billing period")
		return
	}

	user, err := h.accounts.ApplyPlan(r.Context(), s.SubjectID, tier, period)
	if err != nil {
		h.respondUser(w, nil, err)
		return
	}

	updated := user.Session()
	if !h.bindSession(w, updated) {
		return
	}
	h.log.Info("subscription updated",
		zap.String("subject", updated.SubjectID),
		zap.String("plan", string(tier)),
		zap.String("period", string(period)),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Subscription updated successfully",
		"user":    updated,
		"receipt": h.payments.Receipt("rcpt_"+uuid.NewString(), updated, tier, period),
	})
}

// receipt renders a receipt for the caller's current plan. The id is echoed
// back; payments are not persisted.
func (h *handlers) receipt(w http.ResponseWriter, r *http.Request) {
	s := auth.SessionFromContext(r.Context())

	period, ok := model.ParseBillingPeriod(r.URL.Query().Get("period"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid billing period")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"receipt": h.payments.Receipt(chi.URLParam(r, "id"), s, s.SubscriptionTier, period),
	})
}
