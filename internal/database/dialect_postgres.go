package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresDialect implements Dialect for PostgreSQL
type PostgresDialect struct{}

// NewPostgresDialect creates a new PostgreSQL dialect
func NewPostgresDialect() *PostgresDialect {
	return &PostgresDialect{}
}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

func (d *PostgresDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *PostgresDialect) RewriteQuery(query string) string {
	// PostgreSQL uses $1, $2, etc. instead of ?
	return rewritePlaceholdersToNumbered(query)
}

func (d *PostgresDialect) SupportsLastInsertId() bool {
	// PostgreSQL doesn't support LastInsertId(), needs RETURNING clause
	return false
}

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	return nil
}

func (d *PostgresDialect) MigrationsSubdir() string {
	return "postgres"
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT UNIQUE NOT NULL,
			executed_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *PostgresDialect) UpsertPinCredential() string {
	return `INSERT INTO pin_credentials (child_id, pin_salt, pin_hash, failed_attempts, locked_until, updated_at)
		VALUES (?, ?, ?, 0, NULL, CURRENT_TIMESTAMP)
		ON CONFLICT (child_id) DO UPDATE SET
			pin_salt = excluded.pin_salt,
			pin_hash = excluded.pin_hash,
			failed_attempts = 0,
			locked_until = NULL,
			updated_at = CURRENT_TIMESTAMP`
}

func (d *PostgresDialect) UpsertFamilyMembership() string {
	return `INSERT INTO family_memberships (member_user_id, family_user_id)
		VALUES (?, ?)
		ON CONFLICT (member_user_id) DO NOTHING`
}

func (d *PostgresDialect) InsertCompletionIgnoreConflict(table, fkColumn string) string {
	return fmt.Sprintf(`INSERT INTO %s (%s, completed_on) VALUES (?, ?)
		ON CONFLICT (%s, completed_on) DO NOTHING`, table, fkColumn, fkColumn)
}
