package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ghaggin/eduarchive/internal/config"
	"github.com/ghaggin/eduarchive/internal/model"
	"go.uber.org/zap"
)

const (
	demoKeyID       = "rzp_test_demo_key_for_development"
	demoOrderPrefix = "order_demo_"
	defaultCurrency = "INR"
)

var (
	ErrAmountRequired   = errors.New("amount is required")
	ErrMissingParams    = errors.New("missing required parameters")
	ErrInvalidSignature = errors.New("invalid signature")
)

// PublicConfig is what the browser needs to open the checkout widget. The
// key secret never leaves the server.
type PublicConfig struct {
	Key      string `json:"key"`
	DemoMode bool   `json:"demoMode"`
}

type Company struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

type ReceiptUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Receipt struct {
	ID            string              `json:"id"`
	Date          time.Time           `json:"date"`
	Amount        int64               `json:"amount"`
	Currency      string              `json:"currency"`
	Plan          string              `json:"plan"`
	BillingPeriod model.BillingPeriod `json:"billingPeriod"`
	User          ReceiptUser         `json:"user"`
	Company       Company             `json:"company"`
}

var company = Company{
	Name:    "EduArchive",
	Address: "123 Education Street, Knowledge City",
	Email:   "support@eduarchive.com",
}

// Gateway runs the checkout in demo mode unless both keys are configured.
// With keys present only the signature check is real; orders are still
// created locally.
type Gateway struct {
	keyID     string
	keySecret string
	log       *zap.Logger
	now       func() time.Time
}

func NewGateway(cfg *config.Config, log *zap.Logger) *Gateway {
	return &Gateway{
		keyID:     cfg.Payment.KeyID,
		keySecret: cfg.Payment.KeySecret,
		log:       log,
		now:       time.Now,
	}
}

func (g *Gateway) DemoMode() bool {
	return g.keyID == "" || g.keySecret == ""
}

func (g *Gateway) Config() PublicConfig {
	key := g.keyID
	if key == "" {
		key = demoKeyID
	}
	return PublicConfig{Key: key, DemoMode: g.DemoMode()}
}

type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

func (g *Gateway) CreateOrder(req OrderRequest) (*model.Order, error) {
	if req.Amount <= 0 {
		return nil, ErrAmountRequired
	}
	if req.Currency == "" {
		req.Currency = defaultCurrency
	}

	now := g.now().UTC()
	order := &model.Order{
		ID:         fmt.Sprintf("%s%d", demoOrderPrefix, now.UnixMilli()),
		Entity:     "order",
		Amount:     req.Amount,
		AmountPaid: 0,
		AmountDue:  req.Amount,
		Currency:   req.Currency,
		Receipt:    req.Receipt,
		Status:     "created",
		Notes:      req.Notes,
		CreatedAt:  now,
	}

	g.log.Info("created order", zap.String("order_id", order.ID), zap.Int64("amount", order.Amount))
	return order, nil
}

type VerifyRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Verify accepts demo orders outright. Other orders need the gateway
// signature: hex(HMAC-SHA256(secret, order_id|payment_id)).
func (g *Gateway) Verify(req VerifyRequest) error {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return ErrMissingParams
	}

	if IsDemoOrder(req.OrderID) {
		return nil
	}
	if g.keySecret == "" {
		return ErrInvalidSignature
	}

	expected := Sign(g.keySecret, req.OrderID, req.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// IsDemoOrder reports whether id was minted locally rather than by the
// gateway. Such orders are accepted without a signature, even when keys are
// configured, so callers must label them as demo payments.
func IsDemoOrder(id string) bool {
	return strings.HasPrefix(id, demoOrderPrefix)
}

func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *Gateway) Receipt(id string, s *model.Session, tier model.Tier, period model.BillingPeriod) Receipt {
	plan := model.Plans[tier]
	r := Receipt{
		ID:            id,
		Date:          g.now().UTC(),
		Amount:        plan.Price(period),
		Currency:      defaultCurrency,
		Plan:          plan.Name,
		BillingPeriod: period,
		Company:       company,
	}
	if s != nil {
		r.User = ReceiptUser{Name: s.DisplayName, Email: s.Email}
	}
	return r
}
