package models

import "time"

// FamilyMembership records that a member account has full access to the
// family owned by another account. An account holds at most one membership.
type FamilyMembership struct {
	ID           int64
	MemberUserID int64
	FamilyUserID int64
	CreatedAt    time.Time
}

// EffectiveFamily is the resolved family identity for an acting account:
// either the account's own id, or the owning family's id when the account is
// a shared member.
type EffectiveFamily struct {
	FamilyUserID   int64
	IsSharedMember bool
}

// Invite status values. Once accepted or expired an invite is terminal.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusExpired  = "expired"
)

// FamilyInvite represents an outstanding or resolved offer to join a family
type FamilyInvite struct {
	ID           int64
	Code         string
	FamilyUserID int64
	Email        string
	Status       string
	AcceptedBy   *int64
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// IsExpired reports whether the invite's expiry has passed, regardless of
// whether the expired status has been persisted yet.
func (i *FamilyInvite) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsPending reports whether the invite is still redeemable (status pending
// and not past expiry).
func (i *FamilyInvite) IsPending() bool {
	return i.Status == InviteStatusPending && !i.IsExpired()
}

// FamilyMemberView combines a membership with display fields for the owner's
// admin view.
type FamilyMemberView struct {
	UserID   int64     `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// PendingInviteView is the owner-facing summary of an outstanding invite.
// The code is deliberately absent: redemption links travel out-of-band.
type PendingInviteView struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
