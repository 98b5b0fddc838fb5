package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect defines the interface for database-specific operations
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g., ? to $1 for postgres)
	RewriteQuery(query string) string

	// SupportsLastInsertId returns true if the driver supports LastInsertId()
	SupportsLastInsertId() bool

	// ConfigureConnection applies any database-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// UpsertPinCredential returns the SQL to insert-or-replace a child's PIN
	// credential row keyed by child_id, resetting lockout state.
	// Args: child_id, pin_salt, pin_hash.
	UpsertPinCredential() string

	// UpsertFamilyMembership returns the SQL to insert a membership keyed by
	// member_user_id, a no-op when the row already exists.
	// Args: member_user_id, family_user_id.
	UpsertFamilyMembership() string

	// InsertCompletionIgnoreConflict returns the SQL to insert a per-day
	// completion row, a no-op when the (parent id, date) pair already exists.
	// The table name is interpolated by the caller from a fixed set.
	InsertCompletionIgnoreConflict(table, fkColumn string) string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(match string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
