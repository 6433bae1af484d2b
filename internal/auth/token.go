package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/ghaggin/eduarchive/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenTTL is the fixed validity window of a session token. The cookies carry
// the same max-age.
const TokenTTL = 7 * 24 * time.Hour

var (
	errSecretUnavailable = errors.New("signing secret unavailable")
	errNilSession        = errors.New("nil session")
)

// SigningError is returned by Issue when a token cannot be produced. It is a
// configuration problem, not something a retry fixes.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("sign session token: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// Verifier decodes a token into a Session. A nil result means there is no
// valid session; callers do not distinguish missing from invalid.
type Verifier interface {
	Verify(token string) *model.Session
}

type IssuerConfig struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	log    *zap.Logger
}

type Option func(*Issuer)

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(i *Issuer) {
		i.log = log
	}
}

type sessionClaims struct {
	Email              string           `json:"email"`
	Name               string           `json:"name"`
	Role               string           `json:"role"`
	Subscription       string           `json:"subscription"`
	SubscriptionExpiry *jwt.NumericDate `json:"subscriptionExpiry,omitempty"`
	jwt.RegisteredClaims
}

func NewIssuer(cfg IssuerConfig, opts ...Option) (*Issuer, error) {
	if len(cfg.Secret) < 32 {
		return nil, errors.New("hs256 secret must be at least 32 bytes")
	}
	if cfg.TTL < 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.TTL == 0 {
		cfg.TTL = TokenTTL
	}

	i := &Issuer{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}

	return i, nil
}

func (i *Issuer) Issue(s *model.Session) (string, error) {
	if len(i.secret) == 0 {
		return "", &SigningError{Err: errSecretUnavailable}
	}
	if s == nil {
		return "", &SigningError{Err: errNilSession}
	}

	now := i.now()
	claims := sessionClaims{
		Email:        s.Email,
		Name:         s.DisplayName,
		Role:         string(s.Role),
		Subscription: string(s.SubscriptionTier),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.SubjectID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	if s.SubscriptionExpiry != nil {
		claims.SubscriptionExpiry = jwt.NewNumericDate(*s.SubscriptionExpiry)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		i.log.Error("failed signing session token", zap.Error(err))
		return "", &SigningError{Err: err}
	}

	return token, nil
}

// Verify checks signature and expiry against the wall clock with no skew
// tolerance. It never returns an error; anything wrong yields nil.
func (i *Issuer) Verify(raw string) *model.Session {
	if raw == "" || len(i.secret) == 0 {
		return nil
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if i.issuer != "" {
		options = append(options, jwt.WithIssuer(i.issuer))
	}

	claims := &sessionClaims{}
	token, err := jwt.NewParser(options...).ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		i.log.Debug("rejected session token", zap.Error(err))
		return nil
	}

	role := model.ParseRole(claims.Role)
	tier := model.ParseTier(claims.Subscription)
	if role == model.RoleUnknown || tier == model.TierUnknown || claims.Subject == "" {
		i.log.Debug("rejected session token with unknown claims",
			zap.String("role", claims.Role),
			zap.String("subscription", claims.Subscription),
		)
		return nil
	}

	s := &model.Session{
		SubjectID:        claims.Subject,
		Email:            claims.Email,
		DisplayName:      claims.Name,
		Role:             role,
		SubscriptionTier: tier,
	}
	if claims.SubscriptionExpiry != nil {
		exp := claims.SubscriptionExpiry.Time
		s.SubscriptionExpiry = &exp
	}

	return s
}
