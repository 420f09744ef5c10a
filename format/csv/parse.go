package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/authorship/format"
	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/markup"
)

// Default header names and the record field each feeds.
var defaultColumns = map[string]string{
	"id":           "ID",
	"record_id":    "ID",
	"title":        "Title",
	"subtitle":     "Subtitle",
	"authors":      "Names",
	"author":       "Names",
	"creator":      "Names",
	"creators":     "Names",
	"contributors": "Names",
	"roles":        "Roles",
	"role":         "Roles",
	"abstract":     "Abstract",
	"description":  "Abstract",
	"comments":     "Comments",
	"notes":        "Comments",
	"keywords":     "Keywords",
	"keyword":      "Keywords",
	"subjects":     "Keywords",
	"date":         "Date",
	"year":         "Date",
	"date_issued":  "Date",
	"doi":          "Identifiers.doi",
	"identifier":   "Identifiers",
	"identifiers":  "Identifiers",
	"publisher":    "Publisher",
	"publication":  "Publication",
	"journal":      "Publication",
	"language":     "Language",
	"lang":         "Language",
	"rights":       "License",
	"license":      "License",
	"copyright":    "Copyright",
}

// Parse reads a CSV whose rows are documents with free-text author cells,
// the shape of most spreadsheet exports. Every author entry goes through
// the name classifier; entries with a non-author relator become
// contributors instead.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Record, error) {
	tk, err := opts.Toolkit()
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	switch {
	case opts != nil && opts.Profile != nil && opts.Profile.Options.CSVDelimiter != "":
		reader.Comma = []rune(opts.Profile.Options.CSVDelimiter)[0]
	case opts != nil && strings.HasSuffix(strings.ToLower(opts.SourceName), ".tsv"):
		reader.Comma = '\t'
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	// First row is header
	columnMap := buildColumnMap(rows[0])

	sep := "|"
	if opts != nil && opts.Profile != nil && opts.Profile.Options.MultiValueSeparator != "" {
		sep = opts.Profile.Options.MultiValueSeparator
	}

	records := make([]*hub.Record, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		record := rowToRecord(tk, rows[i], columnMap, sep)
		if record.Title == "" && len(record.Names) == 0 && record.Contributors.Len() == 0 {
			tk.Logger.Debug("skipping empty CSV row", "row", i+1)
			continue
		}
		if opts != nil {
			record.SourceName = opts.SourceName
		}
		records = append(records, record)
	}

	return records, nil
}

func buildColumnMap(header []string) map[int]string {
	colMap := make(map[int]string)
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(col))
		if field, ok := defaultColumns[col]; ok {
			colMap[i] = field
		}
	}
	return colMap
}

// nameEntry is one author cell entry with its optional relator prefix.
type nameEntry struct {
	role string
	name string
}

func rowToRecord(tk *format.Toolkit, row []string, colMap map[int]string, sep string) *hub.Record {
	record := hub.NewRecord("csv")

	var entries []nameEntry
	var roles []string

	for i, value := range row {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		field, ok := colMap[i]
		if !ok {
			continue
		}
		base, subtype, _ := strings.Cut(field, ".")

		switch base {
		case "ID":
			record.ID = value
		case "Title":
			record.Title = tk.DetagText(value, markup.FieldTitle)
		case "Subtitle":
			record.Subtitle = tk.DetagText(value, markup.FieldTitle)
		case "Names":
			for _, v := range splitMultiValue(value, sep) {
				role, name := parseNamePrefix(v)
				entries = append(entries, nameEntry{role: role, name: name})
			}
		case "Roles":
			roles = splitMultiValue(value, sep)
		case "Abstract":
			record.Abstract = tk.DetagText(value, markup.FieldAbstract)
		case "Comments":
			for _, v := range splitMultiValue(value, sep) {
				record.Comments = append(record.Comments, tk.DetagText(v, markup.FieldComments))
			}
		case "Keywords":
			for _, v := range splitMultiValue(value, sep) {
				if k := tk.DetagText(v, markup.FieldKeywords); k != "" {
					record.Keywords = append(record.Keywords, hub.Keyword{String: k})
				}
			}
		case "Date":
			if d := hub.ParsePubDate(value, tk.Tables); !d.IsZero() {
				record.PubDates = append(record.PubDates, d)
			}
		case "Identifiers":
			idType := hub.IdentifierType(subtype)
			for _, v := range splitMultiValue(value, sep) {
				record.AddIdentifier(hub.NewIdentifier(v, idType))
			}
		case "Publisher":
			record.Publisher = value
		case "Publication":
			record.Publication = value
		case "Language":
			record.Language = value
		case "License":
			if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
				record.License = hub.NewLicense("", value, "")
			} else {
				record.License = hub.NewLicense("", "", tk.DetagText(value, markup.FieldLicense))
			}
		case "Copyright":
			record.Copyright = value
		}
	}

	// A roles column pairs with the author entries by position
	for i := range entries {
		if entries[i].role == "" && i < len(roles) {
			entries[i].role = roles[i]
		}
	}
	for _, e := range entries {
		addEntry(tk, record, e)
	}

	if record.ID == "" {
		record.ID = record.DOI()
	}
	tk.Converter.ConvertRecord(record)
	return record
}

// addEntry classifies one author entry. Authors and creators land in the
// classified name list; other roles become contributors.
func addEntry(tk *format.Toolkit, record *hub.Record, e nameEntry) {
	code := hub.NormalizeRole(e.role)
	if code == "" || code == "aut" || code == "cre" {
		record.Names = append(record.Names, tk.Names.Parse(e.name)...)
		return
	}

	for _, n := range tk.Names.Parse(e.name) {
		c := hub.Contributor{Role: hub.RelatorLabel(code)}
		switch v := n.(type) {
		case hub.ParsedName:
			c.Surname = v.Surname
			c.Given = strings.TrimSpace(v.Given + " " + v.Middle)
		case hub.Collaboration:
			c.Collab = v.Collab
		}
		record.Contributors.Contributors = append(record.Contributors.Contributors, c)
	}
}

// parseNamePrefix splits the optional "relators:xxx:person:" or
// "relators:xxx:" prefix off an author entry.
func parseNamePrefix(value string) (role, name string) {
	name = value
	if rest, ok := strings.CutPrefix(name, "relators:"); ok {
		if code, after, found := strings.Cut(rest, ":"); found {
			role, name = "relators:"+code, after
		}
	}
	for _, kind := range []string{"person:", "organization:", "corporate_body:", "family:"} {
		if after, ok := strings.CutPrefix(name, kind); ok {
			return role, after
		}
	}
	return role, name
}

func splitMultiValue(value string, sep string) []string {
	if sep == "" {
		return []string{value}
	}
	parts := strings.Split(value, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
