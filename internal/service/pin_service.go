package service

import (
	"errors"
	"fmt"
	"time"

	"chorestar/internal/models"
	"chorestar/internal/repository"
	"chorestar/internal/security"
	"chorestar/internal/validation"
)

var (
	// ErrChildNotFound covers both a missing child and a child owned by
	// someone else: an unauthorized caller must not learn the difference.
	ErrChildNotFound = errors.New("child not found")

	// ErrPinMismatch covers both a wrong PIN and a child with no PIN
	// configured, again deliberately indistinguishable.
	ErrPinMismatch = errors.New("incorrect PIN")

	ErrPinLocked = errors.New("PIN locked, try again later")
)

// PinService owns creation, verification and lockout state for per-child
// numeric PINs.
type PinService struct {
	childRepo   *repository.ChildRepository
	pinRepo     *repository.PinRepository
	maxAttempts int
	lockout     time.Duration
}

// NewPinService creates a new PIN service with the given lockout policy
func NewPinService(childRepo *repository.ChildRepository, pinRepo *repository.PinRepository, maxAttempts int, lockout time.Duration) *PinService {
	return &PinService{
		childRepo:   childRepo,
		pinRepo:     pinRepo,
		maxAttempts: maxAttempts,
		lockout:     lockout,
	}
}

// SetPin creates or replaces a child's PIN. Only the direct owner of the
// child record may set a PIN; family sharing does not delegate credential
// management. Setting a PIN always resets lockout state, which is the
// designed unlock path for a locked-out child.
func (s *PinService) SetPin(ownerUserID, childID int64, rawPin string) error {
	pin := validation.NormalizePin(rawPin)
	if err := validation.ValidatePin(pin); err != nil {
		return err
	}

	if err := s.requireDirectOwner(ownerUserID, childID); err != nil {
		return err
	}

	salt, err := security.NewPinSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	// Single-row upsert: salt, hash and lockout reset land atomically
	if err := s.pinRepo.UpsertCredential(childID, salt, security.HashPin(pin, salt)); err != nil {
		return err
	}

	return nil
}

// RemovePin deletes a child's PIN credential. Idempotent; same ownership
// rule as SetPin.
func (s *PinService) RemovePin(ownerUserID, childID int64) error {
	if err := s.requireDirectOwner(ownerUserID, childID); err != nil {
		return err
	}
	return s.pinRepo.DeleteCredential(childID)
}

// VerifyPin checks a candidate PIN for a child within a family context and
// returns the child's public profile on success. While a lockout window is
// active it fails closed without evaluating the candidate.
func (s *PinService) VerifyPin(familyUserID, childID int64, rawPin string) (*models.ChildProfile, error) {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil || child.UserID != familyUserID {
		return nil, ErrChildNotFound
	}

	cred, err := s.pinRepo.GetCredential(childID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrPinMismatch
	}

	if cred.IsLocked() {
		return nil, ErrPinLocked
	}

	pin := validation.NormalizePin(rawPin)
	if !security.VerifyPinHash(pin, cred.PinSalt, cred.PinHash) {
		attempts, err := s.pinRepo.IncrementFailedAttempts(childID)
		if err != nil {
			return nil, err
		}
		if attempts >= s.maxAttempts {
			if err := s.pinRepo.SetLock(childID, time.Now().Add(s.lockout)); err != nil {
				return nil, err
			}
		}
		return nil, ErrPinMismatch
	}

	if err := s.pinRepo.ResetLockout(childID); err != nil {
		return nil, err
	}

	profile := child.Profile()
	return &profile, nil
}

// HasPin reports whether a child has a PIN configured. Owner-facing only;
// never exposed on unauthenticated paths.
func (s *PinService) HasPin(childID int64) (bool, error) {
	cred, err := s.pinRepo.GetCredential(childID)
	if err != nil {
		return false, err
	}
	return cred != nil, nil
}

func (s *PinService) requireDirectOwner(ownerUserID, childID int64) error {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return err
	}
	if child == nil || child.UserID != ownerUserID {
		return ErrChildNotFound
	}
	return nil
}
