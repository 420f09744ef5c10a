package csv

import (
	"encoding/csv"
	"io"

	"github.com/lehigh-university-libraries/authorship/format"
	"github.com/lehigh-university-libraries/authorship/hub"
)

// Serialize writes one row per author or contributor. Record-level fields
// repeat on every row of the record.
func (f *Format) Serialize(w io.Writer, records []*hub.Record, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	sep := opts.Separator()

	columns := opts.Columns
	if len(columns) == 0 {
		columns = DefaultColumns()
	}

	writer := csv.NewWriter(w)
	if opts.Profile != nil && opts.Profile.Options.CSVDelimiter != "" {
		writer.Comma = []rune(opts.Profile.Options.CSVDelimiter)[0]
	}
	defer writer.Flush()

	// Write header
	if opts.IncludeHeader {
		if err := writer.Write(columns); err != nil {
			return err
		}
	}

	for _, row := range format.ContributorRows(records) {
		if err := writer.Write(rowValues(row, columns, sep)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// rowValues fills columns from the contributor first and falls back to the
// record for record-level columns.
func rowValues(row format.ContributorRow, columns []string, sep string) []string {
	values := make([]string, len(columns))
	for i, col := range columns {
		if v := row.Value(col, sep); v != "" {
			values[i] = v
			continue
		}
		values[i] = format.RecordValue(row.Record, col, sep)
	}
	return values
}

// DefaultColumns returns the standard column set for CSV output.
func DefaultColumns() []string {
	return append(format.DefaultContributorColumns(), "doi", "date", "source_format")
}
