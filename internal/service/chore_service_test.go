package service

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDays(t *testing.T) {
	tests := []struct {
		name    string
		days    string
		wantErr bool
	}{
		{"empty means every day", "", false},
		{"weekdays", "1,2,3,4,5", false},
		{"single day", "0", false},
		{"with spaces", "1, 3, 5", false},
		{"out of range", "7", true},
		{"negative", "-1", true},
		{"not a number", "mon", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDays(tt.days)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateDays(%q) = %v, wantErr %v", tt.days, err, tt.wantErr)
			}
		})
	}
}

func TestChoreToggle(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Leo")

	chore, err := env.chores.CreateChore(parent.ID, child.ID, "Make bed", "🛏️", 50, "")
	if err != nil {
		t.Fatalf("CreateChore failed: %v", err)
	}

	date := "2026-08-24"
	done, err := env.chores.ToggleCompletion(parent.ID, chore.ID, date)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !done {
		t.Error("first toggle should complete the chore")
	}

	done, err = env.chores.ToggleCompletion(parent.ID, chore.ID, date)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if done {
		t.Error("second toggle should un-complete the chore")
	}

	list, err := env.chores.ListChores(parent.ID, child.ID, date)
	if err != nil {
		t.Fatalf("ListChores failed: %v", err)
	}
	if len(list) != 1 || list[0].Completed {
		t.Errorf("unexpected list state: %+v", list)
	}
}

func TestChoreHiddenAcrossFamilies(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice@example.com", "Alice")
	eve := env.createUser(t, "eve@example.com", "Eve")
	child := env.createChild(t, alice.ID, "Leo")

	chore, err := env.chores.CreateChore(alice.ID, child.ID, "Make bed", "🛏️", 50, "")
	if err != nil {
		t.Fatalf("CreateChore failed: %v", err)
	}

	if _, err := env.chores.UpdateChore(eve.ID, chore.ID, "Hacked", "", 0, ""); !errors.Is(err, ErrChoreNotFound) {
		t.Errorf("cross-family update: got %v, want ErrChoreNotFound", err)
	}
	if err := env.chores.DeleteChore(eve.ID, chore.ID); !errors.Is(err, ErrChoreNotFound) {
		t.Errorf("cross-family delete: got %v, want ErrChoreNotFound", err)
	}
	if _, err := env.chores.ListChores(eve.ID, child.ID, "2026-08-24"); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("cross-family list: got %v, want ErrChildNotFound", err)
	}
}

func TestSharedMemberManagesChores(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", "Owner")
	member := env.createUser(t, "member@example.com", "Member")
	child := env.createChild(t, owner.ID, "Leo")
	env.joinFamily(t, owner, member)

	eff, err := env.family.ResolveEffectiveFamily(member.ID)
	if err != nil {
		t.Fatalf("ResolveEffectiveFamily failed: %v", err)
	}

	chore, err := env.chores.CreateChore(eff.FamilyUserID, child.ID, "Feed cat", "🐱", 25, "1,3,5")
	if err != nil {
		t.Fatalf("member CreateChore failed: %v", err)
	}
	if _, err := env.chores.ToggleCompletion(eff.FamilyUserID, chore.ID, "2026-08-24"); err != nil {
		t.Errorf("member toggle failed: %v", err)
	}
}

func TestWeeklySummary(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Leo")

	bed, err := env.chores.CreateChore(parent.ID, child.ID, "Make bed", "🛏️", 50, "")
	if err != nil {
		t.Fatalf("CreateChore failed: %v", err)
	}
	dishes, err := env.chores.CreateChore(parent.ID, child.ID, "Do dishes", "🍽️", 100, "")
	if err != nil {
		t.Fatalf("CreateChore failed: %v", err)
	}

	end := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	inWindow := []string{
		end.Format("2006-01-02"),
		end.AddDate(0, 0, -2).Format("2006-01-02"),
		end.AddDate(0, 0, -6).Format("2006-01-02"),
	}
	for _, d := range inWindow {
		if _, err := env.chores.ToggleCompletion(parent.ID, bed.ID, d); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
	}
	if _, err := env.chores.ToggleCompletion(parent.ID, dishes.ID, inWindow[0]); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	// Outside the seven-day window, must not count
	if _, err := env.chores.ToggleCompletion(parent.ID, bed.ID, end.AddDate(0, 0, -7).Format("2006-01-02")); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	summary, err := env.chores.WeeklySummary(parent.ID, child.ID, end.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("WeeklySummary failed: %v", err)
	}
	if summary.CompletedCount != 4 {
		t.Errorf("completed count = %d, want 4", summary.CompletedCount)
	}
	if summary.EarnedCents != 3*50+100 {
		t.Errorf("earned cents = %d, want %d", summary.EarnedCents, 3*50+100)
	}
	if summary.TotalChores != 2 {
		t.Errorf("total chores = %d, want 2", summary.TotalChores)
	}
}
