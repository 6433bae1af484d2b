package model

import "time"

type User struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	DisplayName        string     `json:"name"`
	PasswordHash       string     `json:"passwordHash"`
	Role               Role       `json:"role"`
	SubscriptionTier   Tier       `json:"subscription"`
	SubscriptionExpiry *time.Time `json:"subscriptionExpiry,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Session projects the account onto the fields that go into a token.
func (u *User) Session() *Session {
	s := &Session{
		SubjectID:        u.ID,
		Email:            u.Email,
		DisplayName:      u.DisplayName,
		Role:             u.Role,
		SubscriptionTier: u.SubscriptionTier,
	}
	if u.SubscriptionExpiry != nil {
		exp := *u.SubscriptionExpiry
		s.SubscriptionExpiry = &exp
	}
	return s
}

// UserUpdate lists the fields UpdateFields may change. Nil means untouched.
type UserUpdate struct {
	DisplayName        *string
	Email              *string
	Role               *Role
	SubscriptionTier   *Tier
	SubscriptionExpiry **time.Time
}
