// Package xlsx writes records to an Excel workbook with one sheet of
// records and one sheet of contributors.
package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/lehigh-university-libraries/authorship/format"
	"github.com/lehigh-university-libraries/authorship/hub"
)

// Sheet names of the workbook.
const (
	RecordsSheet      = "Records"
	ContributorsSheet = "Contributors"
)

// Format implements the XLSX output format.
type Format struct{}

var (
	_ format.Format     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "xlsx"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Excel workbook with Records and Contributors sheets"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xlsx"}
}

// CanParse always returns false: XLSX is an output format only.
func (f *Format) CanParse(peek []byte) bool {
	return false
}

// Serialize writes the workbook. opts.Columns, when set, selects the
// columns of the Contributors sheet.
func (f *Format) Serialize(w io.Writer, records []*hub.Record, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	sep := opts.Separator()

	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", RecordsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := wb.NewSheet(ContributorsSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	header, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	recordCols := format.DefaultRecordColumns()
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(recordCols))
		for i, col := range recordCols {
			row[i] = format.RecordValue(rec, col, sep)
		}
		rows = append(rows, row)
	}
	if err := writeSheet(wb, RecordsSheet, recordCols, rows, header); err != nil {
		return err
	}

	contribCols := opts.Columns
	if len(contribCols) == 0 {
		contribCols = format.DefaultContributorColumns()
	}
	rows = rows[:0]
	for _, cr := range format.ContributorRows(records) {
		row := make([]string, len(contribCols))
		for i, col := range contribCols {
			if row[i] = cr.Value(col, sep); row[i] == "" {
				row[i] = format.RecordValue(cr.Record, col, sep)
			}
		}
		rows = append(rows, row)
	}
	if err := writeSheet(wb, ContributorsSheet, contribCols, rows, header); err != nil {
		return err
	}

	if _, err := wb.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(wb *excelize.File, sheet string, columns []string, rows [][]string, headerStyle int) error {
	if err := setRow(wb, sheet, 1, columns); err != nil {
		return err
	}
	if err := wb.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	for i, row := range rows {
		if err := setRow(wb, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(wb *excelize.File, sheet string, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, n, err)
	}
	return nil
}

func init() {
	format.Register(&Format{})
}
