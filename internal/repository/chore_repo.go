package repository

import (
	"database/sql"
	"fmt"
	"time"

	"chorestar/internal/database"
	"chorestar/internal/models"
)

// ChoreRepository handles database operations for chores and their completions
type ChoreRepository struct {
	db *database.DB
}

// NewChoreRepository creates a new chore repository
func NewChoreRepository(db *database.DB) *ChoreRepository {
	return &ChoreRepository{db: db}
}

// CreateChore creates a new chore for a child
func (r *ChoreRepository) CreateChore(childID int64, title, icon string, rewardCents int, days string) (*models.Chore, error) {
	query := "INSERT INTO chores (child_id, title, icon, reward_cents, days) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, childID, title, icon, rewardCents, days)
	if err != nil {
		return nil, fmt.Errorf("failed to create chore: %w", err)
	}

	return &models.Chore{
		ID:          id,
		ChildID:     childID,
		Title:       title,
		Icon:        icon,
		RewardCents: rewardCents,
		Days:        days,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// GetChoreByID retrieves a chore by ID
func (r *ChoreRepository) GetChoreByID(choreID int64) (*models.Chore, error) {
	query := "SELECT id, child_id, title, icon, reward_cents, days, created_at, updated_at FROM chores WHERE id = ?"
	chore := &models.Chore{}
	err := r.db.QueryRow(query, choreID).Scan(
		&chore.ID,
		&chore.ChildID,
		&chore.Title,
		&chore.Icon,
		&chore.RewardCents,
		&chore.Days,
		&chore.CreatedAt,
		&chore.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chore: %w", err)
	}
	return chore, nil
}

// GetChildChores retrieves all chores for a child
func (r *ChoreRepository) GetChildChores(childID int64) ([]models.Chore, error) {
	query := `
		SELECT id, child_id, title, icon, reward_cents, days, created_at, updated_at
		FROM chores
		WHERE child_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chores: %w", err)
	}
	defer rows.Close()

	var chores []models.Chore
	for rows.Next() {
		var chore models.Chore
		if err := rows.Scan(
			&chore.ID,
			&chore.ChildID,
			&chore.Title,
			&chore.Icon,
			&chore.RewardCents,
			&chore.Days,
			&chore.CreatedAt,
			&chore.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chore: %w", err)
		}
		chores = append(chores, chore)
	}

	return chores, rows.Err()
}

// UpdateChore updates a chore's fields
func (r *ChoreRepository) UpdateChore(choreID int64, title, icon string, rewardCents int, days string) error {
	query := "UPDATE chores SET title = ?, icon = ?, reward_cents = ?, days = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, title, icon, rewardCents, days, choreID); err != nil {
		return fmt.Errorf("failed to update chore: %w", err)
	}
	return nil
}

// DeleteChore deletes a chore and its completions (cascade)
func (r *ChoreRepository) DeleteChore(choreID int64) error {
	if _, err := r.db.Exec("DELETE FROM chores WHERE id = ?", choreID); err != nil {
		return fmt.Errorf("failed to delete chore: %w", err)
	}
	return nil
}

// ToggleCompletion flips the completion state of a chore for a date.
// The insert is conflict-ignoring, so two concurrent toggles for the same day
// settle on exactly one of the two states rather than erroring.
// Returns the resulting state (true = completed).
func (r *ChoreRepository) ToggleCompletion(choreID int64, date string) (bool, error) {
	insert := r.db.Dialect.InsertCompletionIgnoreConflict("chore_completions", "chore_id")
	result, err := r.db.Exec(insert, choreID, date)
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

	// Row already existed: the toggle means un-complete
	query := "DELETE FROM chore_completions WHERE chore_id = ? AND completed_on = ?"
	if _, err := r.db.Exec(query, choreID, date); err != nil {
		return false, fmt.Errorf("failed to delete completion: %w", err)
	}
	return false, nil
}

// IsCompleted reports whether a chore is completed on a date
func (r *ChoreRepository) IsCompleted(choreID int64, date string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM chore_completions WHERE chore_id = ? AND completed_on = ?"
	if err := r.db.QueryRow(query, choreID, date).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check completion: %w", err)
	}
	return count > 0, nil
}

// GetCompletionsInRange returns completed chore IDs for a child between two
// dates inclusive, keyed by chore then date.
func (r *ChoreRepository) GetCompletionsInRange(childID int64, from, to string) ([]models.ChoreCompletion, error) {
	query := `
		SELECT cc.id, cc.chore_id, cc.completed_on, cc.created_at
		FROM chore_completions cc
		INNER JOIN chores c ON cc.chore_id = c.id
		WHERE c.child_id = ? AND cc.completed_on >= ? AND cc.completed_on <= ?
		ORDER BY cc.completed_on ASC
	`
	rows, err := r.db.Query(query, childID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var completions []models.ChoreCompletion
	for rows.Next() {
		var c models.ChoreCompletion
		if err := rows.Scan(&c.ID, &c.ChoreID, &c.CompletedOn, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		completions = append(completions, c)
	}

	return completions, rows.Err()
}
