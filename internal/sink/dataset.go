// Package sink writes the lead dataset and delivers it to downstream
// systems. The xlsx file is the canonical artifact of a run; FTP is the
// primary delivery target, Salesforce and Notion are secondary.
package sink

import (
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leads-cli/internal/model"
)

const datasetSheet = "Leads"

// DatasetWriter writes lead batches to timestamped xlsx workbooks.
type DatasetWriter struct {
	dir string
	now func() time.Time
}

// NewDatasetWriter creates a writer that drops workbooks into dir.
func NewDatasetWriter(dir string) *DatasetWriter {
	return &DatasetWriter{dir: dir, now: time.Now}
}

// Write writes the leads to a new workbook and returns its path. The
// header row uses the fixed column order; every lead becomes one row.
// An empty batch still produces a header-only workbook so that a run
// with zero new leads leaves an auditable artifact.
func (w *DatasetWriter) Write(leads []*model.Lead) (string, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(datasetSheet)
	if err != nil {
		return "", eris.Wrap(err, "sink: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range model.Columns() {
		header.AddCell().SetString(col)
	}

	for _, lead := range leads {
		row := sheet.AddRow()
		for _, v := range lead.Row() {
			row.AddCell().SetString(v)
		}
	}

	name := "leads_" + w.now().Format("20060102_150405") + ".xlsx"
	path := filepath.Join(w.dir, name)
	if err := f.Save(path); err != nil {
		return "", eris.Wrap(err, "sink: save workbook")
	}
	return path, nil
}
