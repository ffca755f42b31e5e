package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vtran/txn-categorizer/internal/batch"
	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeCategorizer struct {
	calls int
	fail  map[int]error
}

func (f *fakeCategorizer) Run(ctx context.Context, categoriesTable, transactionsTable models.Table) (*models.Result, error) {
	f.calls++
	if err := f.fail[f.calls]; err != nil {
		return nil, err
	}
	result := &models.Result{Categories: categoriesTable.Column(0)}
	for r := range transactionsTable.Rows {
		result.Categorized = append(result.Categorized, models.CategorizedTransaction{
			Transaction: transactionsTable.Cell(r, 0),
			Category:    "Food",
		})
	}
	return result, nil
}

func writeLedger(t *testing.T, path string, remarks ...string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "REMARK_CLEAN"))
	for i, r := range remarks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, r))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestFindLedgers(t *testing.T) {
	dir := t.TempDir()
	writeLedger(t, filepath.Join(dir, "b.xlsx"), "x")
	writeLedger(t, filepath.Join(dir, "a.xlsx"), "x")
	writeLedger(t, filepath.Join(dir, "categories.xlsx"), "x")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "~$a.xlsx"), []byte("lock"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0750))

	files, err := batch.FindLedgers(dir, filepath.Join(dir, "categories.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.xlsx"), filepath.Join(dir, "b.xlsx")}, files)
}

func TestFindLedgers_MissingDirectory(t *testing.T) {
	_, err := batch.FindLedgers(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "jan_categorized.xlsx"), batch.OutputName("in/jan.xls", "out", "xlsx"))
	assert.Equal(t, filepath.Join("out", "jan_categorized.csv"), batch.OutputName("in/jan.xlsx", "out", "csv"))
	assert.Equal(t, filepath.Join("out", "jan_categorized.xlsx"), batch.OutputName("jan.xlsx", "out", ""))
}

func TestProcessor_Process(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	jan := filepath.Join(inDir, "jan.xlsx")
	feb := filepath.Join(inDir, "feb.xlsx")
	writeLedger(t, jan, "com trua", "pho")
	writeLedger(t, feb, "banh mi")

	logger := logging.NewMockLogger()
	fake := &fakeCategorizer{fail: map[int]error{2: errors.New("model unavailable")}}
	p := batch.NewProcessor(fake, config.Default().Output, logger)

	categories := models.Table{Headers: []string{"Category"}, Rows: [][]string{{"Food"}}}
	results, err := p.Process(context.Background(), categories, []string{jan, feb}, outDir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, batch.Succeeded(results))

	require.NoError(t, results[0].Err)
	assert.Len(t, results[0].Result.Categorized, 2)
	assert.FileExists(t, results[0].Output)
	assert.Error(t, results[1].Err)
	assert.NoFileExists(t, results[1].Output)

	assert.True(t, logger.HasEntry("INFO", "Created categorized file"))
	assert.True(t, logger.HasEntry("ERROR", "Failed to categorize ledger"))
}

func TestProcessor_Process_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeCategorizer{}
	p := batch.NewProcessor(fake, config.Default().Output, logging.NewMockLogger())
	results, err := p.Process(ctx, models.Table{}, []string{"a.xlsx"}, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Equal(t, 0, fake.calls)
}
