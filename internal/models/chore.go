package models

import "time"

// Chore is a recurring task assigned to a child. Days holds the scheduled
// weekdays as a comma-separated list of time.Weekday numbers ("1,2,3,4,5");
// empty means every day.
type Chore struct {
	ID          int64
	ChildID     int64
	Title       string
	Icon        string
	RewardCents int
	Days        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ChoreCompletion marks a chore done on a particular date
type ChoreCompletion struct {
	ID          int64
	ChoreID     int64
	CompletedOn string // YYYY-MM-DD
	CreatedAt   time.Time
}

// ChoreWithStatus pairs a chore with its completion state for one date
type ChoreWithStatus struct {
	Chore     Chore
	Completed bool
}

// WeeklySummary aggregates a child's completions over a seven-day window
type WeeklySummary struct {
	ChildID        int64 `json:"child_id"`
	CompletedCount int   `json:"completed_count"`
	EarnedCents    int   `json:"earned_cents"`
	TotalChores    int   `json:"total_chores"`
}
