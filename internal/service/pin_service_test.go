package service

import (
	"errors"
	"testing"
	"time"

	"chorestar/internal/validation"
)

func TestSetAndVerifyPin(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Leo")

	if err := env.pins.SetPin(parent.ID, child.ID, "1234"); err != nil {
		t.Fatalf("SetPin failed: %v", err)
	}

	profile, err := env.pins.VerifyPin(parent.ID, child.ID, "1234")
	if err != nil {
		t.Fatalf("VerifyPin failed: %v", err)
	}
	if profile.ID != child.ID || profile.Name != "Leo" {
		t.Errorf("unexpected profile: %+v", profile)
	}

	if _, err := env.pins.VerifyPin(parent.ID, child.ID, "9999"); !errors.Is(err, ErrPinMismatch) {
		t.Errorf("wrong PIN: got %v, want ErrPinMismatch", err)
	}
}

func TestSetPinNormalizesInput(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Leo")

	// Separators are stripped before validation and hashing
	if err := env.pins.SetPin(parent.ID, child.ID, "12-34"); err != nil {
		t.Fatalf("SetPin with separators failed: %v", err)
	}

	for _, entry := range []string{"1234", "1 2 3 4", "12-34"} {
		if _, err := env.pins.VerifyPin(parent.ID, child.ID, entry); err != nil {
			t.Errorf("VerifyPin(%q) failed: %v", entry, err)
		}
	}
}

func TestSetPinInvalidFormat(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Leo")

	tests := []struct {
		name string
		pin  string
	}{
		{"too short", "123"},
		{"too long", "1234567"},
		{"letters only", "abcd"},
		{"empty", ""},
		{"short after stripping", "1-2-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.pins.SetPin(parent.ID, child.ID, tt.pin)
			var verr validation.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("SetPin(%q) = %v, want validation error", tt.pin, err)
			}
		})
	}
}

func TestSetPinRotatesSalt(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Leo")

	if err := env.pins.SetPin(parent.ID, child.ID, "1234"); err != nil {
		t.Fatalf("first SetPin failed: %v", err)
	}
	first, err := env.pinRepo.GetCredential(child.ID)
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}

	if err := env.pins.SetPin(parent.ID, child.ID, "5678"); err != nil {
		t.Fatalf("second SetPin failed: %v", err)
	}
	second, err := env.pinRepo.GetCredential(child.ID)
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}

	if first.PinSalt == second.PinSalt {
		t.Error("expected a fresh salt on every set")
	}

	if _, err := env.pins.VerifyPin(parent.ID, child.ID, "1234"); !errors.Is(err, ErrPinMismatch) {
		t.Errorf("old PIN still verifies: %v", err)
	}
	if _, err := env.pins.VerifyPin(parent.ID, child.ID, "5678"); err != nil {
		t.Errorf("new PIN rejected: %v", err)
	}
}

func TestVerifyPinWithoutCredential(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Mia")

	// A child with no PIN looks exactly like a wrong PIN
	if _, err := env.pins.VerifyPin(parent.ID, child.ID, "1234"); !errors.Is(err, ErrPinMismatch) {
		t.Errorf("no credential: got %v, want ErrPinMismatch", err)
	}
}

func TestVerifyPinUnknownChild(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")

	if _, err := env.pins.VerifyPin(parent.ID, 9999, "1234"); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("unknown child: got %v, want ErrChildNotFound", err)
	}
}

func TestLockoutAfterRepeatedFailures(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Leo")

	pins := NewPinService(env.childRepo, env.pinRepo, 3, 15*time.Minute)
	if err := pins.SetPin(parent.ID, child.ID, "1234"); err != nil {
		t.Fatalf("SetPin failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := pins.VerifyPin(parent.ID, child.ID, "0000"); !errors.Is(err, ErrPinMismatch) {
			t.Fatalf("attempt %d: got %v, want ErrPinMismatch", i+1, err)
		}
	}

	// Locked now, even for the correct PIN
	if _, err := pins.VerifyPin(parent.ID, child.ID, "1234"); !errors.Is(err, ErrPinLocked) {
		t.Errorf("locked verify: got %v, want ErrPinLocked", err)
	}

	// Setting a new PIN is the unlock path
	if err := pins.SetPin(parent.ID, child.ID, "4321"); err != nil {
		t.Fatalf("SetPin during lockout failed: %v", err)
	}
	if _, err := pins.VerifyPin(parent.ID, child.ID, "4321"); err != nil {
		t.Errorf("verify after reset failed: %v", err)
	}

	cred, err := env.pinRepo.GetCredential(child.ID)
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if cred.FailedAttempts != 0 || cred.LockedUntil != nil {
		t.Errorf("lockout state not cleared: attempts=%d locked=%v", cred.FailedAttempts, cred.LockedUntil)
	}
}

func TestSuccessResetsFailedAttempts(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Leo")

	pins := NewPinService(env.childRepo, env.pinRepo, 3, 15*time.Minute)
	if err := pins.SetPin(parent.ID, child.ID, "1234"); err != nil {
		t.Fatalf("SetPin failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := pins.VerifyPin(parent.ID, child.ID, "0000"); !errors.Is(err, ErrPinMismatch) {
			t.Fatalf("attempt %d: got %v, want ErrPinMismatch", i+1, err)
		}
	}
	if _, err := pins.VerifyPin(parent.ID, child.ID, "1234"); err != nil {
		t.Fatalf("correct PIN rejected: %v", err)
	}

	cred, err := env.pinRepo.GetCredential(child.ID)
	if err != nil {
		t.Fatalf("GetCredential failed: %v", err)
	}
	if cred.FailedAttempts != 0 {
		t.Errorf("failed attempts not reset: got %d", cred.FailedAttempts)
	}
}

func TestSetPinSharedMemberDenied(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", "Owner")
	member := env.createUser(t, "member@example.com", "Member")
	child := env.createChild(t, owner.ID, "Leo")
	env.joinFamily(t, owner, member)

	// Sharing grants data access, not credential management
	if err := env.pins.SetPin(member.ID, child.ID, "1234"); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("member SetPin: got %v, want ErrChildNotFound", err)
	}
	if err := env.pins.RemovePin(member.ID, child.ID); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("member RemovePin: got %v, want ErrChildNotFound", err)
	}
}

func TestVerifyPinSharedMemberAllowed(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", "Owner")
	member := env.createUser(t, "member@example.com", "Member")
	child := env.createChild(t, owner.ID, "Leo")
	env.joinFamily(t, owner, member)

	if err := env.pins.SetPin(owner.ID, child.ID, "1234"); err != nil {
		t.Fatalf("SetPin failed: %v", err)
	}

	// A member verifies within the owner's family scope
	eff, err := env.family.ResolveEffectiveFamily(member.ID)
	if err != nil {
		t.Fatalf("ResolveEffectiveFamily failed: %v", err)
	}
	if _, err := env.pins.VerifyPin(eff.FamilyUserID, child.ID, "1234"); err != nil {
		t.Errorf("member verify failed: %v", err)
	}
}

func TestRemovePinIdempotent(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Leo")

	if err := env.pins.SetPin(parent.ID, child.ID, "1234"); err != nil {
		t.Fatalf("SetPin failed: %v", err)
	}
	if err := env.pins.RemovePin(parent.ID, child.ID); err != nil {
		t.Fatalf("first RemovePin failed: %v", err)
	}
	if err := env.pins.RemovePin(parent.ID, child.ID); err != nil {
		t.Fatalf("second RemovePin failed: %v", err)
	}

	has, err := env.pins.HasPin(child.ID)
	if err != nil {
		t.Fatalf("HasPin failed: %v", err)
	}
	if has {
		t.Error("credential still present after removal")
	}
}
