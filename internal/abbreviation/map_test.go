package abbreviation

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vtran/txn-categorizer/internal/config"
	"vtran/txn-categorizer/internal/logging"
	"vtran/txn-categorizer/internal/models"
	"vtran/txn-categorizer/internal/parsererror"
	"vtran/txn-categorizer/internal/spreadsheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dictTable() models.Table {
	return models.Table{
		Sheet:   "Sheet1",
		Headers: []string{"Full_words", "Abbreviation"},
		Rows: [][]string{
			{"chuyển khoản", "ck, CK, chuyen k"},
			{"chứng khoán", "ck"},
			{"thanh toán", "tt, TT"},
			{"chuyển khoản", "ck"},
			{"", "xx"},
			{"tiền", ""},
		},
	}
}

func TestLoadMap(t *testing.T) {
	m, err := LoadMap(dictTable(), "Full_words", "Abbreviation", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"chuyển khoản", "chứng khoán"}, m.Lookup("ck"), "file order, duplicates collapsed")
	assert.Equal(t, []string{"chuyển khoản"}, m.Lookup("CK"))
	assert.Equal(t, []string{"chuyển khoản"}, m.Lookup("chuyen k"))
	assert.Equal(t, []string{"thanh toán"}, m.Lookup("tt"))
	assert.Nil(t, m.Lookup("Tt"), "lookup is case-sensitive")
	assert.Nil(t, m.Lookup("xx"), "rows without a full word are skipped")
	assert.Equal(t, 5, m.Len())
	assert.Equal(t, 1, m.Ambiguous())
}

func TestLoadMap_CaseInsensitive(t *testing.T) {
	m, err := LoadMap(dictTable(), "Full_words", "Abbreviation", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"chuyển khoản", "chứng khoán"}, m.Lookup("CK"))
	assert.Equal(t, []string{"thanh toán"}, m.Lookup("Tt"))
}

func TestLoadMap_NormalizesUnicode(t *testing.T) {
	table := models.Table{
		Headers: []string{"Full_words", "Abbreviation"},
		Rows:    [][]string{{"ti\u1ec1n m\u1eb7t", "tie\u0302\u0300n"}},
	}
	m, err := LoadMap(table, "Full_words", "Abbreviation", true)
	require.NoError(t, err)

	// a decomposed key matches a composed token and vice versa
	assert.Equal(t, []string{"ti\u1ec1n m\u1eb7t"}, m.Lookup("ti\u1ec1n"))
	assert.Equal(t, []string{"ti\u1ec1n m\u1eb7t"}, m.Lookup("tie\u0302\u0300n"))
}

func TestLoadMap_MissingColumns(t *testing.T) {
	table := models.Table{Sheet: "dict", Headers: []string{"Word", "Abbreviation"}}
	_, err := LoadMap(table, "Full_words", "Abbreviation", true)

	var ve *parsererror.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Reason, "Full_words")
	assert.NotContains(t, ve.Reason, "[Full_words Abbreviation]")
}

func TestLoadFile(t *testing.T) {
	logger := logging.NewMockLogger()
	dir := t.TempDir()
	path := filepath.Join(dir, "abbreviation_dict.xlsx")

	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteTable(&buf, dictTable()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

	cfg := config.Default().Abbreviations
	cfg.File = path

	m, err := LoadFile(cfg, logger)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Len())
	assert.True(t, logger.HasEntry("INFO", "Loaded abbreviation dictionary"))
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := config.Default().Abbreviations
	cfg.File = filepath.Join(t.TempDir(), "nope.xlsx")

	t.Run("optional", func(t *testing.T) {
		logger := logging.NewMockLogger()
		m, err := LoadFile(cfg, logger)
		require.NoError(t, err)
		assert.Zero(t, m.Len())
		assert.True(t, logger.HasEntry("WARN", "Abbreviation dictionary not found, expansion disabled"))
	})

	t.Run("required", func(t *testing.T) {
		required := cfg
		required.Required = true
		_, err := LoadFile(required, logging.NewMockLogger())
		var ve *parsererror.ValidationError
		assert.True(t, errors.As(err, &ve))
	})

	t.Run("unset", func(t *testing.T) {
		unset := cfg
		unset.File = ""
		m, err := LoadFile(unset, logging.NewMockLogger())
		require.NoError(t, err)
		assert.Zero(t, m.Len())
	})
}

func TestLoadFile_BadHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.xlsx")
	var buf bytes.Buffer
	require.NoError(t, spreadsheet.WriteTable(&buf, models.Table{
		Headers: []string{"Word", "Short"},
		Rows:    [][]string{{"chuyển khoản", "ck"}},
	}))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

	cfg := config.Default().Abbreviations
	cfg.File = path
	_, err := LoadFile(cfg, logging.NewMockLogger())

	var ve *parsererror.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, path, ve.FilePath)
}

func TestMap_Nil(t *testing.T) {
	var m *Map
	assert.Nil(t, m.Lookup("ck"))
	assert.Zero(t, m.Len())
}
