package rules

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Column headers of the correlation sheet maintained by the business.
// Matched after trimming, since the sheet historically carries stray
// whitespace in headers.
const (
	colCategory     = "Dodge - Sub section"
	colIndustry     = "CRM - Industry"
	colIndustryCode = "CRM - Industry Code"
	colSegment      = "CRM - Segment"
	colSegmentCode  = "CRM - Segment Code"
	colInclude      = "Include"
)

// DefaultSheetName is the workbook sheet holding the correlations.
const DefaultSheetName = "PropertyType-correlation"

// LoadXLSX reads the rule set from the property-type correlation workbook.
// Rows with an empty category are skipped; Include is "Y"/"N".
func LoadXLSX(path, sheetName string) (*RuleSet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "rules: open workbook")
	}
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	sheet, ok := f.Sheet[sheetName]
	if !ok {
		return nil, eris.Errorf("rules: sheet %q not found", sheetName)
	}
	if len(sheet.Rows) == 0 {
		return New(nil), nil
	}

	cols := headerIndex(sheet.Rows[0])
	catIdx := cols[colCategory]
	if catIdx < 0 {
		return nil, eris.Errorf("rules: column %q not found in sheet %q", colCategory, sheetName)
	}

	out := make(map[string]Rule)
	for _, row := range sheet.Rows[1:] {
		category := strings.TrimSpace(cellAt(row, catIdx))
		if category == "" {
			continue
		}
		out[category] = Rule{
			Category:     category,
			Include:      strings.EqualFold(strings.TrimSpace(cellAt(row, cols[colInclude])), "Y"),
			Industry:     strings.TrimSpace(cellAt(row, cols[colIndustry])),
			IndustryCode: strings.TrimSpace(cellAt(row, cols[colIndustryCode])),
			Segment:      strings.TrimSpace(cellAt(row, cols[colSegment])),
			SegmentCode:  strings.TrimSpace(cellAt(row, cols[colSegmentCode])),
		}
	}

	zap.L().Info("rules: loaded correlation workbook",
		zap.String("path", path),
		zap.Int("categories", len(out)),
	)
	return New(out), nil
}

// LoadYAML reads the rule set from a YAML file of category → rule.
func LoadYAML(path string) (*RuleSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "rules: read yaml")
	}
	var out map[string]Rule
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, eris.Wrap(err, "rules: parse yaml")
	}

	zap.L().Info("rules: loaded yaml rule set",
		zap.String("path", path),
		zap.Int("categories", len(out)),
	)
	return New(out), nil
}

// Load picks the loader from the file extension.
func Load(path, sheetName string) (*RuleSet, error) {
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return LoadYAML(path)
	default:
		return LoadXLSX(path, sheetName)
	}
}

// headerIndex maps trimmed header names to column positions. The missing
// sentinel -1 makes cellAt return "" for absent optional columns.
func headerIndex(header *xlsx.Row) map[string]int {
	cols := map[string]int{
		colCategory:     -1,
		colIndustry:     -1,
		colIndustryCode: -1,
		colSegment:      -1,
		colSegmentCode:  -1,
		colInclude:      -1,
	}
	for i, cell := range header.Cells {
		name := strings.TrimSpace(cell.String())
		if _, tracked := cols[name]; tracked {
			cols[name] = i
		}
	}
	return cols
}

func cellAt(row *xlsx.Row, idx int) string {
	if idx < 0 || idx >= len(row.Cells) {
		return ""
	}
	return row.Cells[idx].String()
}
