package ledger

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s,
		expense("100.5", "餐饮", time.Date(2024, 1, 2, 19, 30, 0, 0, time.UTC)),
		income("3000", "工资", time.Date(2024, 1, 25, 9, 0, 0, 0, time.UTC)),
	)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "out", "export.csv")
	got, err := s.Export(dest)
	require.NoError(t, err)
	assert.Equal(t, dest, got)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM), "missing BOM")

	rows, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	want := [][]string{
		Columns,
		{"1", "支出", "100.50", "餐饮", "2024-01-02 19:30:00", "", "2024-03-01 10:00:00"},
		{"2", "收入", "3000.00", "工资", "2024-01-25 09:00:00", "", "2024-03-01 10:00:00"},
	}
	assert.Equal(t, want, rows)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after, "export must not rewrite the ledger")
}

func TestExportDefaultPath(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Initialize())

	got, err := s.Export("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(s.Path()), "account_export_20240301_100000.csv"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{Columns}, rows)
}

func TestExportDir(t *testing.T) {
	dir := t.TempDir()
	exportDir := filepath.Join(dir, "exports")
	s := NewStore(filepath.Join(dir, "ledger.xlsx"),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return fixedNow }),
		WithExportDir(exportDir),
	)

	got, err := s.Export("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(exportDir, DefaultExportName(fixedNow)), got)
	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "export must not create the ledger")
}

func TestExportRefusesLedgerPath(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, expense("100.5", "餐饮", day(2024, 1, 2)))
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	rel, err := filepath.Rel(mustGetwd(t), s.Path())
	require.NoError(t, err)

	for _, dest := range []string{s.Path(), rel, filepath.Dir(s.Path()) + "/./" + filepath.Base(s.Path()), s.Path() + ".lock"} {
		_, err := s.Export(dest)
		require.ErrorIs(t, err, ErrInvalidInput, dest)
	}

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after, "ledger must be untouched")

	records, err := s.ListAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func mustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	return wd
}
