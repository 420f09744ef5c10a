package format

import (
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/authorship/hub"
)

// DefaultContributorColumns is the column set of the one-row-per-contributor
// tables written by the tabular serializers.
func DefaultContributorColumns() []string {
	return []string{
		"record_id", "title", "position", "kind", "name", "surname", "given",
		"native_name", "collab", "role", "correspondence", "email", "orcid",
		"affiliations", "affiliation_ids",
	}
}

// DefaultRecordColumns is the column set of the one-row-per-record tables.
func DefaultRecordColumns() []string {
	return []string{
		"record_id", "source_format", "source_name", "title", "subtitle",
		"publication", "publisher", "date", "doi", "identifiers", "keywords",
		"abstract", "comments", "copyright", "license", "language", "authors",
	}
}

// ContributorRow is one contributor of one record, flattened for tabular
// output.
type ContributorRow struct {
	Record      *hub.Record
	Position    int
	Author      bool
	Contributor hub.Contributor
}

// ContributorRows flattens records to one row per author or contributor.
// A record without any people still yields one row so it is not lost.
func ContributorRows(records []*hub.Record) []ContributorRow {
	var rows []ContributorRow
	for _, rec := range records {
		people := rec.People()
		if people.Len() == 0 {
			rows = append(rows, ContributorRow{Record: rec})
			continue
		}
		for i, c := range people.Authors {
			rows = append(rows, ContributorRow{Record: rec, Position: i + 1, Author: true, Contributor: c})
		}
		for i, c := range people.Contributors {
			rows = append(rows, ContributorRow{Record: rec, Position: i + 1, Contributor: c})
		}
	}
	return rows
}

// Value returns the cell for column. Unknown columns are empty.
func (r ContributorRow) Value(column, sep string) string {
	c := r.Contributor
	switch column {
	case "record_id":
		return r.Record.ID
	case "title":
		return r.Record.Title
	case "position":
		if r.Position == 0 {
			return ""
		}
		return strconv.Itoa(r.Position)
	case "kind":
		switch {
		case r.Position == 0:
			return ""
		case r.Author:
			return "author"
		default:
			return "contributor"
		}
	case "name":
		return c.Name()
	case "surname":
		return c.Surname
	case "given":
		return c.Given
	case "native_name":
		return c.NativeLanguage
	case "collab":
		return c.Collab
	case "role":
		return c.Role
	case "correspondence":
		if r.Position == 0 {
			return ""
		}
		return strconv.FormatBool(c.Correspondence)
	case "email":
		return c.Email
	case "orcid":
		return c.ORCID
	case "affiliations":
		return strings.Join(c.Affiliations, sep)
	case "affiliation_ids":
		var ids []string
		for _, group := range c.AffiliationIDs {
			for _, id := range group {
				ids = append(ids, id.Value)
			}
		}
		return strings.Join(ids, sep)
	}
	return ""
}

// RecordValue returns the cell of record for column. Columns that are not
// built in are looked up in the record's extra values.
func RecordValue(record *hub.Record, column, sep string) string {
	switch column {
	case "record_id":
		return record.ID
	case "source_format":
		return record.SourceFormat
	case "source_name":
		return record.SourceName
	case "title":
		return record.Title
	case "subtitle":
		return record.Subtitle
	case "publication":
		return record.Publication
	case "publisher":
		return record.Publisher
	case "date":
		if d := record.PrimaryDate(); !d.IsZero() {
			return d.String()
		}
		return ""
	case "doi":
		return record.DOI()
	case "identifiers":
		ids := make([]string, 0, len(record.Identifiers))
		for _, id := range record.Identifiers {
			ids = append(ids, hub.IdentifierURI(id))
		}
		return strings.Join(ids, sep)
	case "keywords":
		vals := make([]string, 0, len(record.Keywords))
		for _, k := range record.Keywords {
			vals = append(vals, k.String)
		}
		return strings.Join(vals, sep)
	case "abstract":
		return record.Abstract
	case "comments":
		return strings.Join(record.Comments, sep)
	case "copyright":
		return record.Copyright
	case "license":
		if record.License.URL != "" {
			return record.License.URL
		}
		return record.License.Text
	case "language":
		return record.Language
	case "authors":
		people := record.People()
		names := make([]string, 0, len(people.Authors))
		for _, c := range people.Authors {
			names = append(names, c.Name())
		}
		return strings.Join(names, sep)
	}
	v, _ := record.GetExtra(column)
	return v
}
