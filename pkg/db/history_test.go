package db

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewHistory(conn)
}

func at(minute int) time.Time {
	return time.Date(2024, 3, 1, 10, minute, 0, 0, time.UTC)
}

func TestRecordAndRecent(t *testing.T) {
	h := openTestHistory(t)

	first, err := h.Record(Operation{
		Type:        OpAdd,
		RecordID:    sql.NullInt64{Int64: 1, Valid: true},
		Amount:      decimal.NewNullDecimal(decimal.RequireFromString("12.50")),
		RecordCount: 1,
		Detail:      "餐饮",
		PerformedAt: at(0),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.OpID)
	assert.NotZero(t, first.ID)

	_, err = h.Record(Operation{Type: OpClear, RecordCount: 0, PerformedAt: at(5)})
	require.NoError(t, err)

	ops, err := h.Recent(10)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	assert.Equal(t, OpClear, ops[0].Type)
	assert.False(t, ops[0].RecordID.Valid)
	assert.False(t, ops[0].Amount.Valid)

	got := ops[1]
	assert.Equal(t, first.OpID, got.OpID)
	assert.Equal(t, OpAdd, got.Type)
	assert.Equal(t, int64(1), got.RecordID.Int64)
	require.True(t, got.Amount.Valid)
	assert.True(t, got.Amount.Decimal.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, "餐饮", got.Detail)
	assert.True(t, got.PerformedAt.Equal(at(0)))

	limited, err := h.Recent(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRecordOrdersBySubsecondTime(t *testing.T) {
	h := openTestHistory(t)

	_, err := h.Record(Operation{Type: OpAdd, PerformedAt: at(0).Add(500 * time.Millisecond)})
	require.NoError(t, err)
	_, err = h.Record(Operation{Type: OpDelete, PerformedAt: at(0)})
	require.NoError(t, err)

	ops, err := h.Recent(0)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, OpAdd, ops[0].Type)
}

func TestRecordRequiresType(t *testing.T) {
	h := openTestHistory(t)

	_, err := h.Record(Operation{})
	assert.Error(t, err)
}

func TestRecordDuplicateOpID(t *testing.T) {
	h := openTestHistory(t)

	op := Operation{OpID: "fixed", Type: OpInit}
	_, err := h.Record(op)
	require.NoError(t, err)
	_, err = h.Record(op)
	assert.Error(t, err)

	ops, err := h.Recent(0)
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestStats(t *testing.T) {
	h := openTestHistory(t)

	empty, err := h.Stats()
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.True(t, empty.First.IsZero())

	for i, typ := range []OperationType{OpAdd, OpAdd, OpDelete, OpExport} {
		_, err := h.Record(Operation{Type: typ, PerformedAt: at(i)})
		require.NoError(t, err)
	}

	stats, err := h.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, map[OperationType]int{OpAdd: 2, OpDelete: 1, OpExport: 1}, stats.ByOperation)
	assert.True(t, stats.First.Equal(at(0)))
	assert.True(t, stats.Last.Equal(at(3)))
}

func TestMetadata(t *testing.T) {
	h := openTestHistory(t)

	value, err := h.GetMetadata(MetaLastExportPath)
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, h.SetMetadata(MetaLastExportPath, "/tmp/a.csv"))
	require.NoError(t, h.SetMetadata(MetaLastExportPath, "/tmp/b.csv"))

	value, err = h.GetMetadata(MetaLastExportPath)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/b.csv", value)

	_, err = h.Record(Operation{Type: OpInit, PerformedAt: at(7)})
	require.NoError(t, err)
	last, err := h.GetMetadata(MetaLastOperationAt)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T10:07:00.000000000Z", last)
}

func TestTransactionRollback(t *testing.T) {
	h := openTestHistory(t)
	boom := errors.New("boom")

	err := h.conn.Transaction(func(tx *sql.Tx) error {
		if err := setMetadata(tx, "k", "v"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	value, err := h.GetMetadata("k")
	require.NoError(t, err)
	assert.Empty(t, value, "rolled back write must not be visible")
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	conn, err := Open(path)
	require.NoError(t, err)
	_, err = NewHistory(conn).Record(Operation{Type: OpInit})
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	conn, err = Open(path)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, path, conn.GetPath())

	ops, err := NewHistory(conn).Recent(0)
	require.NoError(t, err)
	assert.Len(t, ops, 1)
}

func TestOpenFailsWhenParentIsAFile(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(parent, nil, 0644))

	_, err := Open(filepath.Join(parent, "history.db"))
	assert.ErrorContains(t, err, "failed to create history directory")
}

func TestTransactionCommitsTogether(t *testing.T) {
	h := openTestHistory(t)

	op, err := h.Record(Operation{Type: OpExport, Detail: "/tmp/x.csv", PerformedAt: at(1)})
	require.NoError(t, err)

	ops, err := h.Recent(0)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, op.OpID, ops[0].OpID)

	last, err := h.GetMetadata(MetaLastOperationAt)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T10:01:00.000000000Z", last)
}
