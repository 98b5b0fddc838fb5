package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDialect implements Dialect for SQLite
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

func (d *SQLiteDialect) DSN(config DialectConfig) string {
	return config.Path
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	// SQLite uses ? placeholders, no rewrite needed
	return query
}

func (d *SQLiteDialect) SupportsLastInsertId() bool {
	return true
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return err
	}

	return nil
}

func (d *SQLiteDialect) MigrationsSubdir() string {
	return "sqlite"
}

func (d *SQLiteDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT UNIQUE NOT NULL,
			executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
}

func (d *SQLiteDialect) UpsertPinCredential() string {
	return `INSERT INTO pin_credentials (child_id, pin_salt, pin_hash, failed_attempts, locked_until, updated_at)
		VALUES (?, ?, ?, 0, NULL, CURRENT_TIMESTAMP)
		ON CONFLICT (child_id) DO UPDATE SET
			pin_salt = excluded.pin_salt,
			pin_hash = excluded.pin_hash,
			failed_attempts = 0,
			locked_until = NULL,
			updated_at = CURRENT_TIMESTAMP`
}

func (d *SQLiteDialect) UpsertFamilyMembership() string {
	return `INSERT INTO family_memberships (member_user_id, family_user_id)
		VALUES (?, ?)
		ON CONFLICT (member_user_id) DO NOTHING`
}

func (d *SQLiteDialect) InsertCompletionIgnoreConflict(table, fkColumn string) string {
	return fmt.Sprintf(`INSERT INTO %s (%s, completed_on) VALUES (?, ?)
		ON CONFLICT (%s, completed_on) DO NOTHING`, table, fkColumn, fkColumn)
}
