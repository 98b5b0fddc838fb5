package repository

import (
	"database/sql"
	"fmt"
	"time"

	"chorestar/internal/database"
	"chorestar/internal/models"
)

// PinRepository handles database operations for child PIN credentials.
// All state transitions are single-row, single-statement writes so concurrent
// verify/set/remove calls observe a consistent before-or-after state.
type PinRepository struct {
	db *database.DB
}

// NewPinRepository creates a new PIN credential repository
func NewPinRepository(db *database.DB) *PinRepository {
	return &PinRepository{db: db}
}

// UpsertCredential replaces the credential row for a child in one atomic
// statement: new salt and hash, failed attempts zeroed, lock cleared.
func (r *PinRepository) UpsertCredential(childID int64, salt, hash string) error {
	query := r.db.Dialect.UpsertPinCredential()
	if _, err := r.db.Exec(query, childID, salt, hash); err != nil {
		return fmt.Errorf("failed to upsert pin credential: %w", err)
	}
	return nil
}

// GetCredential retrieves the credential for a child, or nil if none is set
func (r *PinRepository) GetCredential(childID int64) (*models.PinCredential, error) {
	query := "SELECT child_id, pin_salt, pin_hash, failed_attempts, locked_until, updated_at FROM pin_credentials WHERE child_id = ?"
	cred := &models.PinCredential{}
	var lockedUntil sql.NullTime
	err := r.db.QueryRow(query, childID).Scan(
		&cred.ChildID,
		&cred.PinSalt,
		&cred.PinHash,
		&cred.FailedAttempts,
		&lockedUntil,
		&cred.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pin credential: %w", err)
	}
	if lockedUntil.Valid {
		cred.LockedUntil = &lockedUntil.Time
	}
	return cred, nil
}

// DeleteCredential removes the credential row for a child. Deleting a
// missing row is not an error.
func (r *PinRepository) DeleteCredential(childID int64) error {
	if _, err := r.db.Exec("DELETE FROM pin_credentials WHERE child_id = ?", childID); err != nil {
		return fmt.Errorf("failed to delete pin credential: %w", err)
	}
	return nil
}

// IncrementFailedAttempts bumps the counter in place at the storage layer so
// concurrent wrong-PIN attempts are never lost to read-modify-write races.
// Returns the counter value after the increment.
func (r *PinRepository) IncrementFailedAttempts(childID int64) (int, error) {
	query := "UPDATE pin_credentials SET failed_attempts = failed_attempts + 1 WHERE child_id = ?"
	if _, err := r.db.Exec(query, childID); err != nil {
		return 0, fmt.Errorf("failed to increment attempts: %w", err)
	}

	var attempts int
	err := r.db.QueryRow("SELECT failed_attempts FROM pin_credentials WHERE child_id = ?", childID).Scan(&attempts)
	if err != nil {
		return 0, fmt.Errorf("failed to read attempts: %w", err)
	}
	return attempts, nil
}

// SetLock sets the lock-until timestamp for a child's credential
func (r *PinRepository) SetLock(childID int64, until time.Time) error {
	query := "UPDATE pin_credentials SET locked_until = ? WHERE child_id = ?"
	if _, err := r.db.Exec(query, until, childID); err != nil {
		return fmt.Errorf("failed to set lock: %w", err)
	}
	return nil
}

// ResetLockout clears the failed-attempt counter and any lock
func (r *PinRepository) ResetLockout(childID int64) error {
	query := "UPDATE pin_credentials SET failed_attempts = 0, locked_until = NULL WHERE child_id = ?"
	if _, err := r.db.Exec(query, childID); err != nil {
		return fmt.Errorf("failed to reset lockout: %w", err)
	}
	return nil
}
