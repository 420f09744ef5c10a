package csv

import (
	"bytes"
	encodingcsv "encoding/csv"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/authorship/format"
	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/mapping"
)

func TestParseNamePrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantRole string
		wantName string
	}{
		{
			name:     "full prefix with relators namespace",
			input:    "relators:cre:person:Qin, Tian",
			wantRole: "relators:cre",
			wantName: "Qin, Tian",
		},
		{
			name:     "thesis advisor",
			input:    "relators:ths:person:Huang, Wei-Min",
			wantRole: "relators:ths",
			wantName: "Huang, Wei-Min",
		},
		{
			name:     "organization type",
			input:    "relators:pbl:organization:Lehigh University Press",
			wantRole: "relators:pbl",
			wantName: "Lehigh University Press",
		},
		{
			name:     "type prefix without role",
			input:    "person:Smith, John",
			wantRole: "",
			wantName: "Smith, John",
		},
		{
			name:     "plain name no prefix",
			input:    "Smith, John",
			wantRole: "",
			wantName: "Smith, John",
		},
		{
			name:     "name with colon in it",
			input:    "relators:aut:person:Smith, J.: A Title",
			wantRole: "relators:aut",
			wantName: "Smith, J.: A Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, name := parseNamePrefix(tt.input)
			if role != tt.wantRole {
				t.Errorf("role = %q, want %q", role, tt.wantRole)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
		})
	}
}

func TestParseRows(t *testing.T) {
	input := `id,title,authors,roles,keywords,doi,year
r1,Water on <i>Mars</i>,"Miller, Elizabeth|Robert J Smith|Huang, Wei-Min",aut|aut|ths,mars|water,10.1234/abc,2021
r2,Survey results,The LIGO Scientific Collaboration,,,,
,,,,,,
`

	records, err := (&Format{}).Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	r := records[0]
	if r.ID != "r1" || r.Title != "Water on Mars" {
		t.Errorf("Record 0: got id %q title %q", r.ID, r.Title)
	}
	if len(r.Names) != 2 {
		t.Fatalf("Expected 2 names, got %d", len(r.Names))
	}
	if n := r.Names[1].(hub.ParsedName); n.Given != "Robert" || n.Middle != "J" || n.Surname != "Smith" {
		t.Errorf("Name 1: got %+v", n)
	}
	if len(r.Contributors.Contributors) != 1 {
		t.Fatalf("Expected 1 contributor, got %d", len(r.Contributors.Contributors))
	}
	if c := r.Contributors.Contributors[0]; c.Role != "Thesis advisor" || c.Surname != "Huang" {
		t.Errorf("Contributor 0: got %+v", c)
	}
	if len(r.Keywords) != 2 || r.DOI() != "10.1234/abc" {
		t.Errorf("Keywords %v, DOI %q", r.Keywords, r.DOI())
	}
	if r.PrimaryDate().Year != 2021 {
		t.Errorf("Date: got %+v", r.PrimaryDate())
	}

	if c, ok := records[1].Names[0].(hub.Collaboration); !ok || c.Collab != "LIGO Scientific Collaboration" {
		t.Errorf("Record 1 name: got %+v", records[1].Names[0])
	}
}

func TestParseProfileDelimiters(t *testing.T) {
	profile, err := mapping.LoadProfileFromString(`
name: semicolons
options:
  csv_delimiter: ";"
  multi_value_separator: "#"
`)
	if err != nil {
		t.Fatalf("LoadProfileFromString: %v", err)
	}

	input := "title;authors\nA paper;Smith, John#Doe, Jane\n"
	opts := format.NewParseOptions()
	opts.Profile = profile

	records, err := (&Format{}).Parse(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 || len(records[0].Names) != 2 {
		t.Fatalf("got %+v", records)
	}
}

func TestSerialize(t *testing.T) {
	rec := hub.NewRecord("jats")
	rec.ID = "10.1234/abc"
	rec.Title = "Water on Mars"
	rec.AddIdentifier(hub.NewIdentifier("10.1234/abc", hub.IdentifierDOI))
	rec.Contributors.Authors = []hub.Contributor{
		{
			Surname:        "García",
			Given:          "Ana",
			Correspondence: true,
			Email:          "ana@lehigh.edu",
			Affiliations:   []string{"Lehigh University", "MIT"},
			AffiliationIDs: [][]hub.ExtraID{{{Type: "ror", Value: "https://ror.org/012345"}}, nil},
		},
		{Collab: "Planck Collaboration"},
	}
	rec.Contributors.Contributors = []hub.Contributor{{Surname: "Stone", Given: "Lee", Role: "Editor"}}

	empty := hub.NewRecord("dublincore")
	empty.Title = "Anonymous"

	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, []*hub.Record{rec, empty}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	rows, err := encodingcsv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("Expected header + 4 rows, got %d", len(rows))
	}

	col := make(map[string]int)
	for i, name := range rows[0] {
		col[name] = i
	}

	ana := rows[1]
	checks := map[string]string{
		"name":            "García, Ana",
		"kind":            "author",
		"position":        "1",
		"correspondence":  "true",
		"affiliations":    "Lehigh University|MIT",
		"affiliation_ids": "https://ror.org/012345",
		"doi":             "10.1234/abc",
	}
	for k, want := range checks {
		if got := ana[col[k]]; got != want {
			t.Errorf("%s: got %q, want %q", k, got, want)
		}
	}

	if got := rows[2][col["name"]]; got != "Planck Collaboration" {
		t.Errorf("collab row name: got %q", got)
	}
	if got := rows[3][col["role"]]; got != "Editor" {
		t.Errorf("editor row role: got %q", got)
	}
	if got := rows[3][col["kind"]]; got != "contributor" {
		t.Errorf("editor row kind: got %q", got)
	}
	if rows[4][col["title"]] != "Anonymous" || rows[4][col["name"]] != "" {
		t.Errorf("record without people: got %v", rows[4])
	}
}
