package middleware

import (
	"context"
	"encoding/gob"
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/ghaggin/eduarchive/internal/config"
	"github.com/ghaggin/eduarchive/internal/model"
)

const (
	pendingOrderKey = "pending_order"
	checkoutCookie  = "eduarchive_checkout"
)

var (
	ErrNoPendingOrder = errors.New("pending order not found")
)

// SessionManager keeps short-lived checkout state server side so a payment
// can only be confirmed by the browser that opened the order.
type SessionManager struct {
	impl *scs.SessionManager
}

func NewSessionManager(cfg *config.Config) (*SessionManager, error) {
	gob.Register(&model.Order{})

	sm := &SessionManager{}
	sm.impl = scs.New()
	sm.impl.Lifetime = 30 * time.Minute
	sm.impl.Cookie.Name = checkoutCookie
	sm.impl.Cookie.HttpOnly = true
	sm.impl.Cookie.Path = "/"
	sm.impl.Cookie.SameSite = http.SameSiteStrictMode
	sm.impl.Cookie.Secure = cfg.IsProduction()

	return sm, nil
}

func (s *SessionManager) Wrap(next http.Handler) http.Handler {
	return s.impl.LoadAndSave(next)
}

func (s *SessionManager) PendingOrder(ctx context.Context) (*model.Order, error) {
	order, ok := s.impl.Get(ctx, pendingOrderKey).(*model.Order)
	if !ok {
		return nil, ErrNoPendingOrder
	}

	return order, nil
}

func (s *SessionManager) PutPendingOrder(ctx context.Context, order *model.Order) {
	s.impl.Put(ctx, pendingOrderKey, order)
}

func (s *SessionManager) ClearPendingOrder(ctx context.Context) {
	s.impl.Remove(ctx, pendingOrderKey)
}
