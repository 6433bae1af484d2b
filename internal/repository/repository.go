package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghaggin/eduarchive/internal/config"
	"github.com/ghaggin/eduarchive/internal/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate email")
)

// Repository is the user store the auth flows depend on.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Insert(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id string, update model.UserUpdate) (*model.User, error)
}

type Params struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Log    *zap.Logger
}

// New picks the backend named in config.
func New(p Params) (Repository, error) {
	switch p.Config.Repository.Driver {
	case "json":
		return NewJSON(p)
	case "redis":
		return NewRedis(p)
	default:
		return nil, fmt.Errorf("unknown repository driver %q", p.Config.Repository.Driver)
	}
}

// apply copies the non-nil fields of update onto u.
func apply(u *model.User, update model.UserUpdate) {
	if update.DisplayName != nil {
		u.DisplayName = *update.DisplayName
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	if update.SubscriptionTier != nil {
		u.SubscriptionTier = *update.SubscriptionTier
	}
	if update.SubscriptionExpiry != nil {
		u.SubscriptionExpiry = *update.SubscriptionExpiry
	}
}
