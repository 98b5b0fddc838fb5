package repository

import (
	"database/sql"
	"fmt"
	"time"

	"chorestar/internal/database"
	"chorestar/internal/models"
)

// ChildRepository handles database operations for child profiles
type ChildRepository struct {
	db *database.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *database.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

// CreateChild creates a new child profile owned by userID
func (r *ChildRepository) CreateChild(userID int64, name string, age int, avatarColor, avatarEmoji string) (*models.Child, error) {
	query := "INSERT INTO children (user_id, name, age, avatar_color, avatar_emoji) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, userID, name, age, avatarColor, avatarEmoji)
	if err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}

	return &models.Child{
		ID:          id,
		UserID:      userID,
		Name:        name,
		Age:         age,
		AvatarColor: avatarColor,
		AvatarEmoji: avatarEmoji,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}, nil
}

// GetChildByID retrieves a child by ID
func (r *ChildRepository) GetChildByID(childID int64) (*models.Child, error) {
	query := "SELECT id, user_id, name, age, avatar_color, avatar_emoji, created_at, updated_at FROM children WHERE id = ?"
	child := &models.Child{}
	err := r.db.QueryRow(query, childID).Scan(
		&child.ID,
		&child.UserID,
		&child.Name,
		&child.Age,
		&child.AvatarColor,
		&child.AvatarEmoji,
		&child.CreatedAt,
		&child.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return child, nil
}

// GetFamilyChildren retrieves all children owned by a family
func (r *ChildRepository) GetFamilyChildren(familyUserID int64) ([]models.Child, error) {
	query := `
		SELECT id, user_id, name, age, avatar_color, avatar_emoji, created_at, updated_at
		FROM children
		WHERE user_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, familyUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	var children []models.Child
	for rows.Next() {
		var child models.Child
		if err := rows.Scan(
			&child.ID,
			&child.UserID,
			&child.Name,
			&child.Age,
			&child.AvatarColor,
			&child.AvatarEmoji,
			&child.CreatedAt,
			&child.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, child)
	}

	return children, rows.Err()
}

// UpdateChild updates a child's profile fields
func (r *ChildRepository) UpdateChild(childID int64, name string, age int, avatarColor, avatarEmoji string) error {
	query := "UPDATE children SET name = ?, age = ?, avatar_color = ?, avatar_emoji = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, name, age, avatarColor, avatarEmoji, childID); err != nil {
		return fmt.Errorf("failed to update child: %w", err)
	}
	return nil
}

// DeleteChild deletes a child profile; credentials, chores and routines
// cascade at the schema level.
func (r *ChildRepository) DeleteChild(childID int64) error {
	if _, err := r.db.Exec("DELETE FROM children WHERE id = ?", childID); err != nil {
		return fmt.Errorf("failed to delete child: %w", err)
	}
	return nil
}
