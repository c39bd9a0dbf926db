// Package db provides SQLite storage for the ledger's operation history and
// small pieces of metadata.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Operation history table
-- One row per mutation applied to the ledger workbook
CREATE TABLE IF NOT EXISTS operation_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    op_id TEXT NOT NULL UNIQUE,        -- UUID assigned by the caller
    operation TEXT NOT NULL,           -- 'init', 'add', 'delete', 'clear', 'export'
    record_id INTEGER,                 -- Affected record ID (optional)
    amount TEXT,                       -- Decimal amount as text (optional)
    record_count INTEGER NOT NULL,     -- Records in the ledger after the operation
    detail TEXT NOT NULL DEFAULT '',   -- Free-form detail (category, export path)
    performed_at TEXT NOT NULL         -- RFC 3339, UTC
);

CREATE INDEX IF NOT EXISTS idx_operation_history_performed
    ON operation_history(performed_at);

CREATE INDEX IF NOT EXISTS idx_operation_history_operation
    ON operation_history(operation);

-- Metadata table
-- Stores key-value metadata such as the last export path
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
