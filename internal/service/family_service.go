package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chorestar/internal/models"
	"chorestar/internal/repository"
	"chorestar/internal/validation"
)

var (
	ErrInviteNotFound = errors.New("invite not found")
	ErrInviteGone     = errors.New("invite no longer available")
	ErrSelfInvite     = errors.New("cannot invite yourself")
	ErrEmailMismatch  = errors.New("invite was issued to a different email")
	ErrNotFamilyOwner = errors.New("only the family owner can do this")
)

// FamilyService handles family sharing: effective-family resolution, invite
// lifecycle and membership management.
type FamilyService struct {
	familyRepo *repository.FamilyRepository
	userRepo   *repository.UserRepository
	inviteTTL  time.Duration
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, userRepo *repository.UserRepository, inviteTTL time.Duration) *FamilyService {
	return &FamilyService{
		familyRepo: familyRepo,
		userRepo:   userRepo,
		inviteTTL:  inviteTTL,
	}
}

// ResolveEffectiveFamily maps an acting account to the family whose data it
// operates on. Accounts with a membership act on the owning family; everyone
// else acts on their own.
func (s *FamilyService) ResolveEffectiveFamily(userID int64) (models.EffectiveFamily, error) {
	m, err := s.familyRepo.GetMembershipByMember(userID)
	if err != nil {
		return models.EffectiveFamily{}, err
	}
	if m != nil {
		return models.EffectiveFamily{FamilyUserID: m.FamilyUserID, IsSharedMember: true}, nil
	}
	return models.EffectiveFamily{FamilyUserID: userID, IsSharedMember: false}, nil
}

// CreateInvite issues or refreshes an invitation to join the inviter's
// effective family. Re-inviting an email with an outstanding pending invite
// reuses the existing code and pushes the expiry forward, so resending a
// lost email never invalidates the original link.
func (s *FamilyService) CreateInvite(inviter *models.User, email string) (*models.FamilyInvite, error) {
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if strings.EqualFold(email, inviter.Email) {
		return nil, ErrSelfInvite
	}

	eff, err := s.ResolveEffectiveFamily(inviter.ID)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.inviteTTL)

	existing, err := s.familyRepo.GetPendingInviteByEmail(eff.FamilyUserID, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		extended, err := s.familyRepo.ExtendInvite(existing.ID, expiresAt)
		if err != nil {
			return nil, err
		}
		if extended {
			existing.ExpiresAt = expiresAt
			return existing, nil
		}
		// Lost a race with an acceptance; fall through to a fresh invite
	}

	code, err := s.familyRepo.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	return s.familyRepo.CreateInvite(code, eff.FamilyUserID, email, expiresAt)
}

// AcceptInvite redeems an invite code for the signed-in account. The invite
// must be pending, unexpired, addressed to the account's email, and not
// issued by the account itself. A member re-accepting the invite they already
// redeemed is a no-op.
func (s *FamilyService) AcceptInvite(redeemer *models.User, code string) error {
	inv, err := s.familyRepo.GetInviteByCode(code)
	if err != nil {
		return err
	}
	if inv == nil {
		return ErrInviteNotFound
	}

	switch inv.Status {
	case models.InviteStatusAccepted:
		if inv.AcceptedBy != nil && *inv.AcceptedBy == redeemer.ID {
			// Idempotent retry by the same account; make sure the
			// membership exists and report success
			return s.familyRepo.UpsertMembership(redeemer.ID, inv.FamilyUserID)
		}
		return ErrInviteGone
	case models.InviteStatusExpired:
		return ErrInviteGone
	}

	if inv.IsExpired() {
		// Persist the transition so later lookups see a terminal invite
		if err := s.familyRepo.MarkInviteExpired(inv.ID); err != nil {
			return err
		}
		return ErrInviteGone
	}

	if inv.FamilyUserID == redeemer.ID {
		return ErrSelfInvite
	}
	if !strings.EqualFold(inv.Email, redeemer.Email) {
		return ErrEmailMismatch
	}

	accepted, err := s.familyRepo.RedeemInvite(inv.ID, redeemer.ID, inv.FamilyUserID)
	if err != nil {
		return err
	}
	if !accepted {
		// Someone else resolved the invite between our read and write
		current, err := s.familyRepo.GetInviteByCode(code)
		if err != nil {
			return err
		}
		if current != nil && current.Status == models.InviteStatusAccepted &&
			current.AcceptedBy != nil && *current.AcceptedBy == redeemer.ID {
			return s.familyRepo.UpsertMembership(redeemer.ID, inv.FamilyUserID)
		}
		return ErrInviteGone
	}

	return nil
}

// InviteInfo is the public view of an invite shown on the redemption page
// before the redeemer signs in. Anyone holding the code can fetch it, so it
// carries no addresses: just enough to render the page.
type InviteInfo struct {
	Status     string    `json:"status"`
	FamilyName string    `json:"family_name"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// GetInviteInfo looks up an invite by code for the public redemption page.
// Detecting a passed expiry persists the transition.
func (s *FamilyService) GetInviteInfo(code string) (*InviteInfo, error) {
	inv, err := s.familyRepo.GetInviteByCode(code)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInviteNotFound
	}

	status := inv.Status
	if status == models.InviteStatusPending && inv.IsExpired() {
		if err := s.familyRepo.MarkInviteExpired(inv.ID); err != nil {
			return nil, err
		}
		status = models.InviteStatusExpired
	}

	owner, err := s.userRepo.GetUserByID(inv.FamilyUserID)
	if err != nil {
		return nil, err
	}
	familyName := ""
	if owner != nil {
		familyName = owner.Name
	}

	return &InviteInfo{
		Status:     status,
		FamilyName: familyName,
		ExpiresAt:  inv.ExpiresAt,
	}, nil
}

// FamilyOverview is the owner's admin view: accepted members plus
// outstanding invites.
type FamilyOverview struct {
	Members        []models.FamilyMemberView  `json:"members"`
	PendingInvites []models.PendingInviteView `json:"pending_invites"`
}

// ListFamily returns the sharing state of the caller's family. The admin view
// is owner-only: member and pending-invitee emails are not shown to shared
// members.
func (s *FamilyService) ListFamily(userID int64) (*FamilyOverview, error) {
	eff, err := s.ResolveEffectiveFamily(userID)
	if err != nil {
		return nil, err
	}
	if eff.IsSharedMember {
		return nil, ErrNotFamilyOwner
	}

	members, err := s.familyRepo.GetFamilyMembers(eff.FamilyUserID)
	if err != nil {
		return nil, err
	}

	invites, err := s.familyRepo.GetPendingInvites(eff.FamilyUserID)
	if err != nil {
		return nil, err
	}

	pending := make([]models.PendingInviteView, 0, len(invites))
	for _, inv := range invites {
		if inv.IsExpired() {
			continue
		}
		pending = append(pending, models.PendingInviteView{
			Email:     inv.Email,
			CreatedAt: inv.CreatedAt,
			ExpiresAt: inv.ExpiresAt,
		})
	}

	return &FamilyOverview{Members: members, PendingInvites: pending}, nil
}

// RemoveMember revokes a member's access to the owner's family. Removing an
// account that is not a member succeeds without effect.
func (s *FamilyService) RemoveMember(ownerUserID, memberUserID int64) error {
	return s.familyRepo.DeleteMembership(ownerUserID, memberUserID)
}
