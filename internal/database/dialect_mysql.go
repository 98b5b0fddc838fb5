package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

func (d *MySQLDialect) DSN(config DialectConfig) string {
	return config.URL
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders like SQLite, no rewrite needed
	return query
}

func (d *MySQLDialect) SupportsLastInsertId() bool {
	return true
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1;"); err != nil {
		return err
	}

	return nil
}

func (d *MySQLDialect) MigrationsSubdir() string {
	return "mysql"
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `
		CREATE TABLE IF NOT EXISTS migrations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			executed_at DATETIME(6) DEFAULT CURRENT_TIMESTAMP(6)
		);
	`
}

func (d *MySQLDialect) UpsertPinCredential() string {
	return `INSERT INTO pin_credentials (child_id, pin_salt, pin_hash, failed_attempts, locked_until, updated_at)
		VALUES (?, ?, ?, 0, NULL, CURRENT_TIMESTAMP)
		ON DUPLICATE KEY UPDATE
			pin_salt = VALUES(pin_salt),
			pin_hash = VALUES(pin_hash),
			failed_attempts = 0,
			locked_until = NULL,
			updated_at = CURRENT_TIMESTAMP`
}

func (d *MySQLDialect) UpsertFamilyMembership() string {
	return `INSERT IGNORE INTO family_memberships (member_user_id, family_user_id)
		VALUES (?, ?)`
}

func (d *MySQLDialect) InsertCompletionIgnoreConflict(table, fkColumn string) string {
	return fmt.Sprintf(`INSERT IGNORE INTO %s (%s, completed_on) VALUES (?, ?)`, table, fkColumn)
}
