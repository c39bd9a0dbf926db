package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationType names a mutation recorded in the history.
type OperationType string

const (
	OpInit   OperationType = "init"
	OpAdd    OperationType = "add"
	OpDelete OperationType = "delete"
	OpClear  OperationType = "clear"
	OpExport OperationType = "export"
)

// timestampLayout has fixed-width fractional seconds so stored timestamps
// sort lexically in time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Metadata keys.
const (
	MetaLastOperationAt = "last_operation_at"
	MetaLastExportPath  = "last_export_path"
)

// Operation represents one row of the operation history.
type Operation struct {
	ID          int64
	OpID        string
	Type        OperationType
	RecordID    sql.NullInt64
	Amount      decimal.NullDecimal
	RecordCount int
	Detail      string
	PerformedAt time.Time
}

// HistoryStats summarizes the operation history.
type HistoryStats struct {
	Total       int
	ByOperation map[OperationType]int
	First       time.Time
	Last        time.Time
}

// History manages operation history rows and metadata.
type History struct {
	conn *Connection
	now  func() time.Time
}

// NewHistory creates a new History instance.
func NewHistory(conn *Connection) *History {
	return &History{conn: conn, now: time.Now}
}

// Record stores op and returns it with its generated fields filled in.
// An empty OpID gets a random UUID and a zero PerformedAt gets the current
// time. The last-operation timestamp in metadata is updated in the same
// transaction.
func (h *History) Record(op Operation) (Operation, error) {
	if op.Type == "" {
		return op, fmt.Errorf("operation type is required")
	}
	if op.OpID == "" {
		op.OpID = uuid.NewString()
	}
	if op.PerformedAt.IsZero() {
		op.PerformedAt = h.now()
	}
	performedAt := op.PerformedAt.UTC().Format(timestampLayout)

	err := h.conn.Transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO operation_history
				(op_id, operation, record_id, amount, record_count, detail, performed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, op.OpID, string(op.Type), op.RecordID, op.Amount, op.RecordCount, op.Detail, performedAt)
		if err != nil {
			return err
		}
		if op.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		return setMetadata(tx, MetaLastOperationAt, performedAt)
	})
	if err != nil {
		return op, fmt.Errorf("failed to record operation: %w", err)
	}

	return op, nil
}

// Recent returns up to limit operations, newest first.
// A non-positive limit returns the whole history.
func (h *History) Recent(limit int) ([]Operation, error) {
	query := `
		SELECT id, op_id, operation, record_id, amount, record_count, detail, performed_at
		FROM operation_history
		ORDER BY performed_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query operation history: %w", err)
	}
	defer rows.Close()

	ops := []Operation{}
	for rows.Next() {
		var (
			op          Operation
			opType      string
			performedAt string
		)
		if err := rows.Scan(
			&op.ID,
			&op.OpID,
			&opType,
			&op.RecordID,
			&op.Amount,
			&op.RecordCount,
			&op.Detail,
			&performedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		op.Type = OperationType(opType)
		if op.PerformedAt, err = parseTimestamp(performedAt); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operations: %w", err)
	}

	return ops, nil
}

// Stats returns counts per operation type and the time span of the history.
func (h *History) Stats() (*HistoryStats, error) {
	stats := &HistoryStats{ByOperation: make(map[OperationType]int)}

	rows, err := h.conn.Query(`
		SELECT operation, COUNT(*) FROM operation_history GROUP BY operation
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count operations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			opType string
			count  int
		)
		if err := rows.Scan(&opType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan operation count: %w", err)
		}
		stats.ByOperation[OperationType(opType)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operation counts: %w", err)
	}

	if stats.Total == 0 {
		return stats, nil
	}

	var first, last string
	err = h.conn.QueryRow(`
		SELECT MIN(performed_at), MAX(performed_at) FROM operation_history
	`).Scan(&first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to get history span: %w", err)
	}
	if stats.First, err = parseTimestamp(first); err != nil {
		return nil, err
	}
	if stats.Last, err = parseTimestamp(last); err != nil {
		return nil, err
	}

	return stats, nil
}

// GetMetadata retrieves a metadata value. It returns "" for a missing key.
func (h *History) GetMetadata(key string) (string, error) {
	var value string
	err := h.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}
	return value, nil
}

// SetMetadata stores a metadata value, replacing any previous one.
func (h *History) SetMetadata(key, value string) error {
	if err := h.conn.Transaction(func(tx *sql.Tx) error {
		return setMetadata(tx, key, value)
	}); err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}
	return nil
}

func setMetadata(tx *sql.Tx, key, value string) error {
	_, err := tx.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
