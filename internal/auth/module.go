package auth

import (
	"github.com/ghaggin/eduarchive/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Provide(
		NewIssuerFromConfig,
		NewBinderFromConfig,
		func(i *Issuer) Verifier { return i },
	),
)

type Params struct {
	fx.In

	Config *config.Config
	Log    *zap.Logger
}

// NewIssuerFromConfig builds the process-wide issuer. Outside production a
// missing secret is replaced by a random one.
func NewIssuerFromConfig(p Params) (*Issuer, error) {
	secret := p.Config.Auth.JWTSecret
	if secret == "" {
		generated, err := config.RandomSecret()
		if err != nil {
			return nil, &SigningError{Err: err}
		}
		p.Log.Warn("no jwt secret configured, using an ephemeral one; sessions will not survive a restart")
		secret = generated
	}

	return NewIssuer(IssuerConfig{
		Secret: []byte(secret),
		Issuer: p.Config.Auth.Issuer,
	}, WithLogger(p.Log))
}

func NewBinderFromConfig(cfg *config.Config) *Binder {
	return NewBinder(cfg.IsProduction())
}
