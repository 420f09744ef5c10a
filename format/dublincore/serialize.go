package dublincore

import (
	"fmt"
	"html"
	"io"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/authorship/format"
	"github.com/lehigh-university-libraries/authorship/hub"
)

const (
	nsOAIDC = "http://www.openarchives.org/OAI/2.0/oai_dc/"
	nsDC    = "http://purl.org/dc/elements/1.1/"
)

// Serialize writes records as oai_dc XML. Several records are wrapped in a
// <records> element.
func (f *Format) Serialize(w io.Writer, records []*hub.Record, opts *format.SerializeOptions) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	parent := &doc.Element
	if len(records) != 1 {
		parent = doc.CreateElement("records")
	}
	for _, record := range records {
		parent.AddChild(recordElement(record))
	}

	if opts == nil || opts.Pretty {
		doc.Indent(2)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing dublin core XML: %w", err)
	}
	return nil
}

// recordElement builds the oai_dc:dc element of one record. Field values
// carry character references and allowed inline tags; they are written as
// plain text.
func recordElement(record *hub.Record) *etree.Element {
	dc := etree.NewElement("oai_dc:dc")
	dc.CreateAttr("xmlns:oai_dc", nsOAIDC)
	dc.CreateAttr("xmlns:dc", nsDC)

	add := func(tag, value string) {
		if value == "" {
			return
		}
		dc.CreateElement("dc:" + tag).SetText(html.UnescapeString(value))
	}

	add("title", joinTitle(record))

	people := record.People()
	for _, c := range people.Authors {
		add("creator", c.Name())
	}
	for _, c := range people.Contributors {
		add("contributor", c.Name())
	}

	for _, k := range record.Keywords {
		add("subject", k.String)
	}
	add("description", record.Abstract)
	for _, c := range record.Comments {
		add("description", c)
	}
	add("publisher", record.Publisher)
	if d := record.PrimaryDate(); !d.IsZero() {
		add("date", d.String())
	}
	add("language", record.Language)
	for _, id := range record.Identifiers {
		add("identifier", hub.IdentifierURI(id))
	}
	add("source", record.Publication)
	if record.License.URL != "" {
		add("rights", record.License.URL)
	} else {
		add("rights", record.License.Text)
	}

	return dc
}

func joinTitle(record *hub.Record) string {
	if record.Subtitle == "" {
		return record.Title
	}
	return record.Title + ": " + record.Subtitle
}
