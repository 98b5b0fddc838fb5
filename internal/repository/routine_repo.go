package repository

import (
	"database/sql"
	"fmt"
	"time"

	"chorestar/internal/database"
	"chorestar/internal/models"
)

// RoutineRepository handles database operations for routines and their completions
type RoutineRepository struct {
	db *database.DB
}

// NewRoutineRepository creates a new routine repository
func NewRoutineRepository(db *database.DB) *RoutineRepository {
	return &RoutineRepository{db: db}
}

// CreateRoutine creates a new routine item for a child
func (r *RoutineRepository) CreateRoutine(childID int64, title, timeOfDay string, sortOrder int) (*models.Routine, error) {
	query := "INSERT INTO routines (child_id, title, time_of_day, sort_order) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, childID, title, timeOfDay, sortOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to create routine: %w", err)
	}

	return &models.Routine{
		ID:        id,
		ChildID:   childID,
		Title:     title,
		TimeOfDay: timeOfDay,
		SortOrder: sortOrder,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

// GetRoutineByID retrieves a routine by ID
func (r *RoutineRepository) GetRoutineByID(routineID int64) (*models.Routine, error) {
	query := "SELECT id, child_id, title, time_of_day, sort_order, created_at, updated_at FROM routines WHERE id = ?"
	routine := &models.Routine{}
	err := r.db.QueryRow(query, routineID).Scan(
		&routine.ID,
		&routine.ChildID,
		&routine.Title,
		&routine.TimeOfDay,
		&routine.SortOrder,
		&routine.CreatedAt,
		&routine.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get routine: %w", err)
	}
	return routine, nil
}

// GetChildRoutines retrieves all routine items for a child, ordered for
// display: morning before evening, then by sort order. time_of_day needs an
// explicit rank because the strings sort the wrong way round.
func (r *RoutineRepository) GetChildRoutines(childID int64) ([]models.Routine, error) {
	query := `
		SELECT id, child_id, title, time_of_day, sort_order, created_at, updated_at
		FROM routines
		WHERE child_id = ?
		ORDER BY CASE time_of_day WHEN 'morning' THEN 0 ELSE 1 END, sort_order ASC, id ASC
	`
	rows, err := r.db.Query(query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query routines: %w", err)
	}
	defer rows.Close()

	var routines []models.Routine
	for rows.Next() {
		var routine models.Routine
		if err := rows.Scan(
			&routine.ID,
			&routine.ChildID,
			&routine.Title,
			&routine.TimeOfDay,
			&routine.SortOrder,
			&routine.CreatedAt,
			&routine.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan routine: %w", err)
		}
		routines = append(routines, routine)
	}

	return routines, rows.Err()
}

// UpdateRoutine updates a routine's fields
func (r *RoutineRepository) UpdateRoutine(routineID int64, title, timeOfDay string, sortOrder int) error {
	query := "UPDATE routines SET title = ?, time_of_day = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, title, timeOfDay, sortOrder, routineID); err != nil {
		return fmt.Errorf("failed to update routine: %w", err)
	}
	return nil
}

// DeleteRoutine deletes a routine and its completions (cascade)
func (r *RoutineRepository) DeleteRoutine(routineID int64) error {
	if _, err := r.db.Exec("DELETE FROM routines WHERE id = ?", routineID); err != nil {
		return fmt.Errorf("failed to delete routine: %w", err)
	}
	return nil
}

// ToggleCompletion flips the completion state of a routine item for a date.
// Same conflict-ignoring insert pattern as chore completions.
func (r *RoutineRepository) ToggleCompletion(routineID int64, date string) (bool, error) {
	insert := r.db.Dialect.InsertCompletionIgnoreConflict("routine_completions", "routine_id")
	result, err := r.db.Exec(insert, routineID, date)
	if err != nil {
		return false, fmt.Errorf("failed to insert completion: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}

	query := "DELETE FROM routine_completions WHERE routine_id = ? AND completed_on = ?"
	if _, err := r.db.Exec(query, routineID, date); err != nil {
		return false, fmt.Errorf("failed to delete completion: %w", err)
	}
	return false, nil
}

// IsCompleted reports whether a routine item is completed on a date
func (r *RoutineRepository) IsCompleted(routineID int64, date string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM routine_completions WHERE routine_id = ? AND completed_on = ?"
	if err := r.db.QueryRow(query, routineID, date).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return count > 0, nil
}
