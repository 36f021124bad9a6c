package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeWorkbook(t *testing.T, sheetName string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	require.NoError(t, err)
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "mapping.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadXLSX(t *testing.T) {
	path := writeWorkbook(t, DefaultSheetName, [][]string{
		{"Dodge - Sub section", "CRM - Industry", "CRM - Industry Code", "CRM - Segment ", "CRM - Segment Code", "Include"},
		{"Hospital", "Healthcare", "HC01", "Acute", "AC10", "Y"},
		{"Office", "Commercial", "CM02", "Offices", "OF20", "N"},
		{"", "", "", "", "", ""},
		{"Retail ", "Commercial", "CM03", "Retail", "RT30", "y"},
	})

	rs, err := LoadXLSX(path, "")
	require.NoError(t, err)
	assert.Equal(t, 3, rs.Len())

	d := rs.Decide("hospital")
	assert.True(t, d.Keep)
	assert.Equal(t, "HC01", d.IndustryCode)
	assert.Equal(t, "AC10", d.SegmentCode)

	// Lowercase include flag still counts; trailing header space tolerated.
	assert.True(t, rs.Decide("Retail").Keep)
	assert.False(t, rs.Decide("Office").Keep)
}

func TestLoadXLSX_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, "WrongSheet", [][]string{{"Dodge - Sub section"}})
	_, err := LoadXLSX(path, "")
	assert.Error(t, err)
}

func TestLoadXLSX_MissingCategoryColumn(t *testing.T) {
	path := writeWorkbook(t, DefaultSheetName, [][]string{{"Wrong", "Headers"}})
	_, err := LoadXLSX(path, "")
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
Hospital:
  include: true
  industry: Healthcare
  industry_code: HC01
  segment_code: AC10
Office:
  include: false
  industry_code: CM02
`), 0o644))

	rs, err := LoadYAML(path)
	require.NoError(t, err)
	assert.Equal(t, 2, rs.Len())
	assert.True(t, rs.Decide("Hospital").Keep)
	assert.False(t, rs.Decide("Office").Keep)
}

func TestLoad_PicksLoaderByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yml")
	require.NoError(t, os.WriteFile(path, []byte("Hospital:\n  include: true\n"), 0o644))

	rs, err := Load(path, "")
	require.NoError(t, err)
	assert.True(t, rs.Decide("Hospital").Keep)

	_, err = Load(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	assert.Error(t, err)
}
