package models

import "time"

// Child represents a child profile in the system. UserID is the owning
// account, which is also the family identity the child belongs to.
type Child struct {
	ID          int64
	UserID      int64
	Name        string
	Age         int
	AvatarColor string
	AvatarEmoji string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChildProfile is the minimal subset returned after a successful PIN
// verification. It never carries credential material.
type ChildProfile struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	AvatarColor string `json:"avatar_color"`
	AvatarEmoji string `json:"avatar_emoji"`
}

// Profile returns the child's public profile subset
func (c *Child) Profile() ChildProfile {
	return ChildProfile{
		ID:          c.ID,
		Name:        c.Name,
		AvatarColor: c.AvatarColor,
		AvatarEmoji: c.AvatarEmoji,
	}
}

// PinCredential is the salted-hash record gating a child's lightweight login.
// The raw PIN is never stored; a fresh salt is issued on every set.
type PinCredential struct {
	ChildID        int64
	PinSalt        string
	PinHash        string
	FailedAttempts int
	LockedUntil    *time.Time
	UpdatedAt      time.Time
}

// IsLocked reports whether the lockout window is still active
func (p *PinCredential) IsLocked() bool {
	return p.LockedUntil != nil && time.Now().Before(*p.LockedUntil)
}
