package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ghaggin/eduarchive/internal/config"
	"github.com/ghaggin/eduarchive/internal/model"
	"github.com/ghaggin/eduarchive/internal/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidPlan        = errors.New("invalid subscription plan")
)

// Controller holds the account rules that sit behind the auth endpoints.
// It owns password hashing; the token layer never sees a password.
type Controller struct {
	repo repository.Repository
	log  *zap.Logger
	cost int
	now  func() time.Time
}

type ControllerParams struct {
	fx.In

	Logger *zap.Logger
	Repo   repository.Repository
}

func NewController(p ControllerParams) (*Controller, error) {
	return &Controller{
		log:  p.Logger,
		repo: p.Repo,
		cost: bcrypt.DefaultCost,
		now:  time.Now,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (c *Controller) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c *Controller) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	u, err := c.repo.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// Register creates a free user account. Returns repository.ErrDuplicate when
// the email is taken.
func (c *Controller) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	hash, err := c.hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:            normalizeEmail(email),
		DisplayName:      strings.TrimSpace(name),
		PasswordHash:     hash,
		Role:             model.RoleUser,
		SubscriptionTier: model.TierFree,
	}
	if err := c.repo.Insert(ctx, u); err != nil {
		return nil, err
	}

	c.log.Info("registered user", zap.String("id", u.ID))
	return u, nil
}

func (c *Controller) GetUser(ctx context.Context, id string) (*model.User, error) {
	return c.repo.FindByID(ctx, id)
}

// UpdateProfile changes name and/or email. Empty values are left alone.
func (c *Controller) UpdateProfile(ctx context.Context, id, name, email string) (*model.User, error) {
	var update model.UserUpdate
	if name = strings.TrimSpace(name); name != "" {
		update.DisplayName = &name
	}
	if email = normalizeEmail(email); email != "" {
		update.Email = &email
	}
	return c.repo.UpdateFields(ctx, id, update)
}

// UpdateSubscription sets the tier and, when given, the expiry.
func (c *Controller) UpdateSubscription(ctx context.Context, id string, plan string, expiry *time.Time) (*model.User, error) {
	tier := model.ParseTier(plan)
	if tier == model.TierUnknown {
		return nil, ErrInvalidPlan
	}

	update := model.UserUpdate{SubscriptionTier: &tier}
	if expiry != nil {
		update.SubscriptionExpiry = &expiry
	}
	return c.repo.UpdateFields(ctx, id, update)
}

// ApplyPlan activates a paid plan for one billing term from now. The free
// plan clears any expiry.
func (c *Controller) ApplyPlan(ctx context.Context, id string, tier model.Tier, period model.BillingPeriod) (*model.User, error) {
	if _, ok := model.Plans[tier]; !ok {
		return nil, ErrInvalidPlan
	}

	var expiry *time.Time
	if tier != model.TierFree {
		exp := c.now().UTC().Add(period.Term())
		expiry = &exp
	}

	return c.repo.UpdateFields(ctx, id, model.UserUpdate{
		SubscriptionTier:   &tier,
		SubscriptionExpiry: &expiry,
	})
}

// Seed inserts the configured demo accounts that are not present yet.
func (c *Controller) Seed(ctx context.Context, users []config.SeedUser) error {
	for _, su := range users {
		email := normalizeEmail(su.Email)
		_, err := c.repo.FindByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		role := model.ParseRole(su.Role)
		tier := model.ParseTier(su.Subscription)
		if role == model.RoleUnknown || tier == model.TierUnknown {
			return fmt.Errorf("seed user %s: invalid role %q or subscription %q", email, su.Role, su.Subscription)
		}

		hash, err := c.hash(su.Password)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", email, err)
		}

		err = c.repo.Insert(ctx, &model.User{
			Email:            email,
			DisplayName:      su.Name,
			PasswordHash:     hash,
			Role:             role,
			SubscriptionTier: tier,
		})
		if err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("seed user %s: %w", email, err)
		}
		c.log.Info("seeded user", zap.String("email", email), zap.String("role", string(role)))
	}
	return nil
}
