package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/snapshot"
)

// setupEnv points the config at a fresh file backend and returns a backup
// holding one saved month.
func setupEnv(t *testing.T) (backupPath string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_BACKEND", "file")
	t.Setenv("DATA_FILE", filepath.Join(dir, "months.json"))
	t.Setenv("LEDGER_VARIANT", "simple")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("AMQP_URL", "")

	store, err := snapshot.Open(context.Background(),
		snapshot.NewFilePersister(filepath.Join(dir, "seed.json")), ledger.VariantSimple)
	require.NoError(t, err)
	l := ledger.FreshLedger(ledger.VariantSimple)
	require.NoError(t, l.SetEntry(ledger.CategoryIncome, "primarySalary", decimal.NewFromInt(6000)))
	require.NoError(t, l.SetEntry(ledger.CategorySavings, "marcus_hysa_emergency", decimal.NewFromInt(600)))
	_, err = store.Save(context.Background(), core.MustMonthKey("2024-03"), l, nil)
	require.NoError(t, err)

	data, err := store.ExportAll().Encode()
	require.NoError(t, err)
	backupPath = filepath.Join(dir, "backup.json")
	require.NoError(t, os.WriteFile(backupPath, data, 0o600))
	return backupPath
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImportListShow(t *testing.T) {
	backup := setupEnv(t)

	out, err := run(t, "", "months")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved months.")

	out, err = run(t, "", "import", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 saved months")

	out, err = run(t, "", "months")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03")
	assert.Contains(t, out, "$6,000.00")
	assert.Contains(t, out, "10.0%")

	out, err = run(t, "", "show", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Month: March 2024")

	_, err = run(t, "", "show", "2024-04")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	_, err = run(t, "", "show", "March")
	assert.ErrorIs(t, err, core.ErrInvalidMonthKey)
}

func TestImportRejectsMalformedBackup(t *testing.T) {
	backup := setupEnv(t)
	_, err := run(t, "", "import", backup)
	require.NoError(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"savedMonths": {}}`), 0o600))
	_, err = run(t, "", "import", bad)
	assert.ErrorIs(t, err, snapshot.ErrMalformedImport)

	out, err := run(t, "", "months")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03")
}

func TestExport(t *testing.T) {
	backup := setupEnv(t)
	_, err := run(t, "", "import", backup)
	require.NoError(t, err)

	out, err := run(t, "", "export", "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"savedMonths"`)
	assert.Contains(t, out, `"version": "1.0"`)

	path := filepath.Join(t.TempDir(), "out.json")
	out, err = run(t, "", "export", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 saved months")
	months, err := snapshot.DecodeDocument(mustRead(t, path))
	require.NoError(t, err)
	assert.Len(t, months, 1)
}

func TestDeleteConfirmation(t *testing.T) {
	backup := setupEnv(t)
	_, err := run(t, "", "import", backup)
	require.NoError(t, err)

	out, err := run(t, "n\n", "delete", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Operation canceled.")

	out, err = run(t, "", "months")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03")

	out, err = run(t, "y\n", "delete", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted March 2024")

	_, err = run(t, "", "delete", "--force", "2024-03")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}

func TestReport(t *testing.T) {
	backup := setupEnv(t)
	_, err := run(t, "", "import", backup)
	require.NoError(t, err)

	out, err := run(t, "", "report", "2024-03", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Financial Summary Report")

	path := filepath.Join(t.TempDir(), "march.pdf")
	_, err = run(t, "", "report", "2024-03", "-o", path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(mustRead(t, path), []byte("%PDF")))

	_, err = run(t, "", "report", "2024-03", "--format", "docx")
	assert.Error(t, err)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
