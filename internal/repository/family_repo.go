package repository

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"chorestar/internal/database"
	"chorestar/internal/models"
)

// FamilyRepository handles database operations for family memberships and invites
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// GetMembershipByMember retrieves the membership held by an account, if any
func (r *FamilyRepository) GetMembershipByMember(memberUserID int64) (*models.FamilyMembership, error) {
	query := "SELECT id, member_user_id, family_user_id, created_at FROM family_memberships WHERE member_user_id = ?"
	m := &models.FamilyMembership{}
	err := r.db.QueryRow(query, memberUserID).Scan(&m.ID, &m.MemberUserID, &m.FamilyUserID, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// UpsertMembership grants an account access to a family. Re-granting an
// existing membership is a no-op, so repeated invite redemptions are harmless.
func (r *FamilyRepository) UpsertMembership(memberUserID, familyUserID int64) error {
	query := r.db.Dialect.UpsertFamilyMembership()
	if _, err := r.db.Exec(query, memberUserID, familyUserID); err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}
	return nil
}

// DeleteMembership revokes a member's access to a family. Idempotent.
func (r *FamilyRepository) DeleteMembership(familyUserID, memberUserID int64) error {
	query := "DELETE FROM family_memberships WHERE family_user_id = ? AND member_user_id = ?"
	if _, err := r.db.Exec(query, familyUserID, memberUserID); err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	return nil
}

// GetFamilyMembers retrieves all accepted members of a family with display fields
func (r *FamilyRepository) GetFamilyMembers(familyUserID int64) ([]models.FamilyMemberView, error) {
	query := `
		SELECT u.id, u.name, u.email, fm.created_at
		FROM family_memberships fm
		INNER JOIN users u ON fm.member_user_id = u.id
		WHERE fm.family_user_id = ?
		ORDER BY fm.created_at ASC
	`
	rows, err := r.db.Query(query, familyUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty family encodes as [] rather than null
	members := make([]models.FamilyMemberView, 0)
	for rows.Next() {
		var m models.FamilyMemberView
		if err := rows.Scan(&m.UserID, &m.Name, &m.Email, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// GenerateInviteCode generates a random invitation code (128 bits, hex)
func (r *FamilyRepository) GenerateInviteCode() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateInvite inserts a new pending invite
func (r *FamilyRepository) CreateInvite(code string, familyUserID int64, email string, expiresAt time.Time) (*models.FamilyInvite, error) {
	query := "INSERT INTO family_invites (code, family_user_id, email, status, expires_at) VALUES (?, ?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, code, familyUserID, email, models.InviteStatusPending, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	return &models.FamilyInvite{
		ID:           id,
		Code:         code,
		FamilyUserID: familyUserID,
		Email:        email,
		Status:       models.InviteStatusPending,
		CreatedAt:    time.Now(),
		ExpiresAt:    expiresAt,
	}, nil
}

func (r *FamilyRepository) scanInvite(row *sql.Row) (*models.FamilyInvite, error) {
	inv := &models.FamilyInvite{}
	var acceptedBy sql.NullInt64
	err := row.Scan(
		&inv.ID,
		&inv.Code,
		&inv.FamilyUserID,
		&inv.Email,
		&inv.Status,
		&acceptedBy,
		&inv.CreatedAt,
		&inv.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	if acceptedBy.Valid {
		inv.AcceptedBy = &acceptedBy.Int64
	}
	return inv, nil
}

const inviteColumns = "id, code, family_user_id, email, status, accepted_by, created_at, expires_at"

// GetInviteByCode retrieves an invite by code
func (r *FamilyRepository) GetInviteByCode(code string) (*models.FamilyInvite, error) {
	query := "SELECT " + inviteColumns + " FROM family_invites WHERE code = ?"
	return r.scanInvite(r.db.QueryRow(query, code))
}

// GetPendingInviteByEmail finds the pending invite for (family, email), if any
func (r *FamilyRepository) GetPendingInviteByEmail(familyUserID int64, email string) (*models.FamilyInvite, error) {
	query := "SELECT " + inviteColumns + " FROM family_invites WHERE family_user_id = ? AND email = ? AND status = ?"
	return r.scanInvite(r.db.QueryRow(query, familyUserID, email, models.InviteStatusPending))
}

// GetPendingInvites retrieves all pending invites for a family
func (r *FamilyRepository) GetPendingInvites(familyUserID int64) ([]models.FamilyInvite, error) {
	query := "SELECT " + inviteColumns + " FROM family_invites WHERE family_user_id = ? AND status = ? ORDER BY created_at DESC"
	rows, err := r.db.Query(query, familyUserID, models.InviteStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query invites: %w", err)
	}
	defer rows.Close()

	var invites []models.FamilyInvite
	for rows.Next() {
		inv := models.FamilyInvite{}
		var acceptedBy sql.NullInt64
		if err := rows.Scan(
			&inv.ID,
			&inv.Code,
			&inv.FamilyUserID,
			&inv.Email,
			&inv.Status,
			&acceptedBy,
			&inv.CreatedAt,
			&inv.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		if acceptedBy.Valid {
			inv.AcceptedBy = &acceptedBy.Int64
		}
		invites = append(invites, inv)
	}

	return invites, rows.Err()
}

// ExtendInvite pushes a pending invite's expiry forward, reusing its code.
// Conditional on status so a resend cannot resurrect a terminal invite.
// Returns false if the invite was no longer pending.
func (r *FamilyRepository) ExtendInvite(inviteID int64, expiresAt time.Time) (bool, error) {
	query := "UPDATE family_invites SET expires_at = ? WHERE id = ? AND status = ?"
	result, err := r.db.Exec(query, expiresAt, inviteID, models.InviteStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to extend invite: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkInviteExpired transitions a pending invite to expired. Conditional on
// status; once terminal an invite never changes again.
func (r *FamilyRepository) MarkInviteExpired(inviteID int64) error {
	query := "UPDATE family_invites SET status = ? WHERE id = ? AND status = ?"
	if _, err := r.db.Exec(query, models.InviteStatusExpired, inviteID, models.InviteStatusPending); err != nil {
		return fmt.Errorf("failed to expire invite: %w", err)
	}
	return nil
}

// RedeemInvite grants the membership and transitions the invite from pending
// to accepted in one transaction. The status condition on the UPDATE means a
// concurrent second acceptance sees zero rows affected and the whole redeem,
// membership included, rolls back. Returns false when the invite was no
// longer pending.
func (r *FamilyRepository) RedeemInvite(inviteID, memberUserID, familyUserID int64) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(tx.GetDialect().UpsertFamilyMembership(), memberUserID, familyUserID); err != nil {
		return false, fmt.Errorf("failed to upsert membership: %w", err)
	}

	result, err := tx.Exec(
		"UPDATE family_invites SET status = ?, accepted_by = ? WHERE id = ? AND status = ?",
		models.InviteStatusAccepted, memberUserID, inviteID, models.InviteStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to accept invite: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit invite redemption: %w", err)
	}
	return true, nil
}
