package model

import "time"

type Role string

const (
	RoleUnknown   Role = ""
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// ParseRole maps a raw string onto the closed role set. Anything outside the
// set comes back as RoleUnknown.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleModerator:
		return Role(s)
	}
	return RoleUnknown
}

// IsAdmin is the only admin check in the codebase. Moderators are not admins.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type Tier string

const (
	TierUnknown Tier = ""
	TierFree    Tier = "free"
	TierBasic   Tier = "basic"
	TierPremium Tier = "premium"
)

func ParseTier(s string) Tier {
	switch Tier(s) {
	case TierFree, TierBasic, TierPremium:
		return Tier(s)
	}
	return TierUnknown
}

// Session is the identity carried by a signed token. It is never mutated
// after issuance; role or tier changes require a new token.
type Session struct {
	SubjectID          string     `json:"id"`
	Email              string     `json:"email"`
	DisplayName        string     `json:"name"`
	Role               Role       `json:"role"`
	SubscriptionTier   Tier       `json:"subscription"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry,omitempty"`
}

func IsAdmin(s *Session) bool {
	return s != nil && s.Role.IsAdmin()
}

func HasPremiumAccess(s *Session) bool {
	if s == nil {
		return false
	}
	return s.SubscriptionTier == TierPremium || IsAdmin(s)
}
