package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)

// exporter renders all records of a view into a downloadable file.
type exporter struct {
	extension   string
	contentType string
	write       func(view View, records []Record) ([]byte, error)
}

var exporters = map[string]exporter{
	"xlsx": {extension: "xlsx", contentType: ContentTypeXLSX, write: writeXLSX},
	"json": {extension: "json", contentType: ContentTypeJSON, write: writeJSON},
	"csv":  {extension: "csv", contentType: ContentTypeCSV, write: writeCSV},
}

// Export renders every record of view in format ("xlsx", "json" or "csv").
// It returns the file name, the content type and the file bytes.
func Export(ctx context.Context, view View, format string) (string, string, []byte, error) {
	exp, ok := exporters[format]
	if !ok {
		return "", "", nil, errors.Errorf("unsupported export format %q", format)
	}

	records, err := view.List(ctx)
	if err != nil {
		return "", "", nil, err
	}

	data, err := exp.write(view, records)
	if err != nil {
		return "", "", nil, err
	}

	filename := strings.ToLower(view.NamePlural()) + "." + exp.extension
	return filename, exp.contentType, data, nil
}

func writeXLSX(view View, records []Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := view.NamePlural()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, errors.Wrap(err, "failed to name sheet")
	}

	columns := view.Columns()
	header := make([]any, 0, len(columns))
	for _, col := range columns {
		header = append(header, col.Label)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, errors.Wrap(err, "failed to write header row")
	}

	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := make([]any, 0, len(record.Cells))
		for _, value := range record.Cells {
			row = append(row, value)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, errors.Wrapf(err, "failed to write row %d", i+2)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to write workbook")
	}
	return buf.Bytes(), nil
}

func writeJSON(view View, records []Record) ([]byte, error) {
	columns := view.Columns()
	rows := make([]map[string]string, 0, len(records))
	for _, record := range records {
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(record.Cells) {
				row[col.Key] = record.Cells[i]
			}
		}
		rows = append(rows, row)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return nil, errors.Wrap(err, "failed to encode json export")
	}
	return buf.Bytes(), nil
}

// writeCSV writes a header row of column labels, then one row per record.
func writeCSV(view View, records []Record) ([]byte, error) {
	columns := view.Columns()
	header := make([]string, 0, len(columns))
	for _, col := range columns {
		header = append(header, col.Label)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "failed to write csv header")
	}
	for i, record := range records {
		if err := w.Write(record.Cells); err != nil {
			return nil, errors.Wrapf(err, "failed to write csv row %d", i+2)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to flush csv export")
	}
	return buf.Bytes(), nil
}
