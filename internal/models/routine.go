package models

import "time"

// Routine time-of-day buckets
const (
	RoutineMorning = "morning"
	RoutineEvening = "evening"
)

// Routine is a daily routine item (brush teeth, pack bag) for a child
type Routine struct {
	ID        int64
	ChildID   int64
	Title     string
	TimeOfDay string
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoutineCompletion marks a routine item done on a particular date
type RoutineCompletion struct {
	ID          int64
	RoutineID   int64
	CompletedOn string // YYYY-MM-DD
	CreatedAt   time.Time
}

// RoutineWithStatus pairs a routine with its completion state for one date
type RoutineWithStatus struct {
	Routine   Routine
	Completed bool
}
