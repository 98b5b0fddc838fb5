package service

import (
	"errors"
	"testing"

	"chorestar/internal/models"
)

func TestRoutineLifecycle(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Leo")

	evening, err := env.routines.CreateRoutine(parent.ID, child.ID, "Brush teeth", models.RoutineEvening, 0)
	if err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}
	morning, err := env.routines.CreateRoutine(parent.ID, child.ID, "Get dressed", models.RoutineMorning, 0)
	if err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}

	date := "2026-08-24"
	list, err := env.routines.ListRoutines(parent.ID, child.ID, date)
	if err != nil {
		t.Fatalf("ListRoutines failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 routines, got %d", len(list))
	}
	// Evening sorts after morning
	if list[0].Routine.ID != morning.ID || list[1].Routine.ID != evening.ID {
		t.Errorf("unexpected ordering: %+v", list)
	}

	done, err := env.routines.ToggleCompletion(parent.ID, morning.ID, date)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !done {
		t.Error("first toggle should complete the routine")
	}

	updated, err := env.routines.UpdateRoutine(parent.ID, morning.ID, "Get dressed fast", models.RoutineMorning, 1)
	if err != nil {
		t.Fatalf("UpdateRoutine failed: %v", err)
	}
	if updated.Title != "Get dressed fast" || updated.SortOrder != 1 {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := env.routines.DeleteRoutine(parent.ID, evening.ID); err != nil {
		t.Fatalf("DeleteRoutine failed: %v", err)
	}
	list, err = env.routines.ListRoutines(parent.ID, child.ID, date)
	if err != nil {
		t.Fatalf("ListRoutines failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 routine after delete, got %d", len(list))
	}
}

func TestRoutineTimeOfDayValidation(t *testing.T) {
	env := newTestEnv(t)
	parent := env.createUser(t, "parent@example.com", "Parent")
	child := env.createChild(t, parent.ID, "Leo")

	if _, err := env.routines.CreateRoutine(parent.ID, child.ID, "Nap", "afternoon", 0); err == nil {
		t.Error("expected validation error for unknown time of day")
	}
}

func TestRoutineHiddenAcrossFamilies(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice@example.com", "Alice")
	eve := env.createUser(t, "eve@example.com", "Eve")
	child := env.createChild(t, alice.ID, "Leo")

	routine, err := env.routines.CreateRoutine(alice.ID, child.ID, "Brush teeth", models.RoutineMorning, 0)
	if err != nil {
		t.Fatalf("CreateRoutine failed: %v", err)
	}

	if _, err := env.routines.ToggleCompletion(eve.ID, routine.ID, "2026-08-24"); !errors.Is(err, ErrRoutineNotFound) {
		t.Errorf("cross-family toggle: got %v, want ErrRoutineNotFound", err)
	}
}
