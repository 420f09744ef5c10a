package dublincore

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/authorship/format"
	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/mapping"
)

func TestParseSingleRecord(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<metadata xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <dc:title>Understanding Dublin Core Metadata</dc:title>
  <dc:title>A Guide</dc:title>
  <dc:creator>Smith, John</dc:creator>
  <dc:creator>Jane Doe; Ludwig van Beethoven</dc:creator>
  <dc:contributor>Miller, Elizabeth</dc:contributor>
  <dc:subject xsi:type="dcterms:LCSH">Metadata</dc:subject>
  <dc:subject>Library Science</dc:subject>
  <dc:description>A comprehensive guide to Dublin Core metadata standards.</dc:description>
  <dc:description>Comments: 12 pages, 3 figures</dc:description>
  <dc:publisher>Test Publisher</dc:publisher>
  <dc:date>2024-01-15</dc:date>
  <dc:identifier>doi:10.1234/test.2024</dc:identifier>
  <dc:identifier>isbn:978-3-16-148410-0</dc:identifier>
  <dc:language>en</dc:language>
  <dc:rights>https://creativecommons.org/licenses/by/4.0/</dc:rights>
  <dcterms:issued>2024-06-01</dcterms:issued>
</metadata>`

	f := &Format{}
	records, err := f.Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	r := records[0]

	if r.Title != "Understanding Dublin Core Metadata: A Guide" {
		t.Errorf("Title: got %q", r.Title)
	}

	// Creators go through the name classifier
	if len(r.Names) != 3 {
		t.Fatalf("Expected 3 names, got %d", len(r.Names))
	}
	smith, ok := r.Names[0].(hub.ParsedName)
	if !ok || smith.Surname != "Smith" || smith.Given != "John" {
		t.Errorf("Name 0: got %+v", r.Names[0])
	}
	if beethoven := r.Names[2].(hub.ParsedName); beethoven.Surname != "van Beethoven" {
		t.Errorf("Name 2 surname: got %q", beethoven.Surname)
	}

	if len(r.Contributors.Contributors) != 1 {
		t.Fatalf("Expected 1 contributor, got %d", len(r.Contributors.Contributors))
	}
	if c := r.Contributors.Contributors[0]; c.Name() != "Miller, Elizabeth" || c.Role != "contributor" {
		t.Errorf("Contributor 0: got %q (%s)", c.Name(), c.Role)
	}

	if len(r.Keywords) != 2 {
		t.Fatalf("Expected 2 keywords, got %d", len(r.Keywords))
	}
	if r.Keywords[0] != (hub.Keyword{System: "LCSH", String: "Metadata"}) {
		t.Errorf("Keyword 0: got %+v", r.Keywords[0])
	}

	if r.Abstract != "A comprehensive guide to Dublin Core metadata standards." {
		t.Errorf("Abstract: got %q", r.Abstract)
	}
	if len(r.Comments) != 1 || r.Comments[0] != "Comments: 12 pages, 3 figures" {
		t.Errorf("Comments: got %v", r.Comments)
	}

	if r.Language != "en" {
		t.Errorf("Language: got %q", r.Language)
	}
	if r.Publisher != "Test Publisher" {
		t.Errorf("Publisher: got %q", r.Publisher)
	}

	if r.ID != "10.1234/test.2024" {
		t.Errorf("ID: got %q", r.ID)
	}
	if len(r.Identifiers) != 2 {
		t.Fatalf("Expected 2 identifiers, got %d", len(r.Identifiers))
	}
	if r.Identifiers[1].Value != "isbn:978-3-16-148410-0" {
		t.Errorf("Identifier 1: got %+v", r.Identifiers[1])
	}

	if len(r.PubDates) != 2 {
		t.Fatalf("Expected 2 dates, got %d", len(r.PubDates))
	}
	if r.PubDates[1].Type != "issued" || r.PubDates[1].Month != 6 {
		t.Errorf("Issued date: got %+v", r.PubDates[1])
	}

	if r.License.Type != "CC BY 4.0" {
		t.Errorf("License type: got %q", r.License.Type)
	}
}

func TestParseMultipleRecords(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<records>
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>First Record</dc:title>
    <dc:creator>Author One</dc:creator>
  </metadata>
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Second Record</dc:title>
    <dc:creator>Author Two</dc:creator>
  </metadata>
</records>`

	f := &Format{}
	records, err := f.Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	if records[0].Title != "First Record" {
		t.Errorf("Record 0 title: got %q", records[0].Title)
	}
	if records[1].Title != "Second Record" {
		t.Errorf("Record 1 title: got %q", records[1].Title)
	}

	for i, r := range records {
		if r.SourceFormat != "dublincore" {
			t.Errorf("Record %d SourceFormat: got %q", i, r.SourceFormat)
		}
	}
}

func TestParseOAIPMHWrapped(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<OAI-PMH xmlns="http://www.openarchives.org/OAI/2.0/"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <responseDate>2024-01-20T00:00:00Z</responseDate>
  <GetRecord>
    <record>
      <header>
        <identifier>oai:arXiv.org:2401.00001</identifier>
        <datestamp>2024-01-20</datestamp>
      </header>
      <metadata>
        <oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/" xmlns:dc="http://purl.org/dc/elements/1.1/">
          <dc:title>Spectra of &alpha; Centauri</dc:title>
          <dc:creator>The Planck Collaboration: White, Martin</dc:creator>
          <dc:creator>Garc&#237;a, Ana</dc:creator>
          <dc:description>We study &lt;sub&gt;water&lt;/sub&gt;.</dc:description>
          <dc:date>2024-03-01</dc:date>
        </oai_dc:dc>
      </metadata>
    </record>
  </GetRecord>
</OAI-PMH>`

	f := &Format{}
	records, err := f.Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	r := records[0]

	if r.Title != "Spectra of α Centauri" {
		t.Errorf("Title: got %q", r.Title)
	}
	if r.ID != "oai:arXiv.org:2401.00001" {
		t.Errorf("ID: got %q", r.ID)
	}

	if len(r.Names) != 3 {
		t.Fatalf("Expected 3 names, got %d: %+v", len(r.Names), r.Names)
	}
	collab, ok := r.Names[0].(hub.Collaboration)
	if !ok || collab.Collab != "Planck Collaboration" {
		t.Errorf("Name 0: got %+v", r.Names[0])
	}
	if white, ok := r.Names[1].(hub.ParsedName); !ok || white.Surname != "White" {
		t.Errorf("Name 1: got %+v", r.Names[1])
	}
	if garcia := r.Names[2].(hub.ParsedName); garcia.Surname != "García" {
		t.Errorf("Name 2 surname: got %q", garcia.Surname)
	}

	if r.Abstract != "We study <sub>water</sub>." {
		t.Errorf("Abstract: got %q", r.Abstract)
	}
}

func TestParseProfile(t *testing.T) {
	profile, err := mapping.LoadProfileFromString(`
name: legacy
format: dublincore
entity_mode: ascii
collaborations:
  first_author_delimiter: ""
`)
	if err != nil {
		t.Fatalf("LoadProfileFromString: %v", err)
	}

	input := `<metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
  <dc:creator>The Planck Collaboration: White, Martin</dc:creator>
  <dc:creator>Garc&#237;a, Ana</dc:creator>
</metadata>`

	opts := format.NewParseOptions()
	opts.Profile = profile
	records, err := (&Format{}).Parse(strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	r := records[0]
	if len(r.Names) != 2 {
		t.Fatalf("Expected 2 names, got %d: %+v", len(r.Names), r.Names)
	}
	if _, ok := r.Names[0].(hub.Collaboration); !ok {
		t.Errorf("Name 0 should stay one collaboration: %+v", r.Names[0])
	}
	if garcia := r.Names[1].(hub.ParsedName); garcia.Surname != "Garcia" {
		t.Errorf("Name 1 surname: got %q", garcia.Surname)
	}
}

func TestParseNoRecords(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<root>
  <something>No DC records here</something>
</root>`

	f := &Format{}
	_, err := f.Parse(strings.NewReader(input), nil)
	if err == nil {
		t.Error("Expected error when no DC records found")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	rec := hub.NewRecord("jats")
	rec.Title = "H<sub>2</sub>O &amp; ice"
	rec.Subtitle = "A study"
	rec.Contributors.Authors = []hub.Contributor{{Surname: "García", Given: "Ana"}}
	rec.Names = []hub.Name{hub.Collaboration{Collab: "LIGO Collaboration"}}
	rec.Keywords = []hub.Keyword{{String: "water"}}
	rec.PubDates = []hub.PubDate{{Type: "epub", Year: 2024, Month: 3}}
	rec.AddIdentifier(hub.NewIdentifier("10.1234/x", hub.IdentifierDOI))

	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, []*hub.Record{rec}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`<oai_dc:dc xmlns:oai_dc="http://www.openarchives.org/OAI/2.0/oai_dc/"`,
		`<dc:title>H&lt;sub&gt;2&lt;/sub&gt;O &amp; ice: A study</dc:title>`,
		`<dc:creator>García, Ana</dc:creator>`,
		`<dc:creator>LIGO Collaboration</dc:creator>`,
		`<dc:date>2024-03</dc:date>`,
		`<dc:identifier>https://doi.org/10.1234/x</dc:identifier>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}

	records, err := (&Format{}).Parse(strings.NewReader(out), nil)
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if len(records[0].Names) != 2 {
		t.Errorf("re-parsed names: got %+v", records[0].Names)
	}
}
