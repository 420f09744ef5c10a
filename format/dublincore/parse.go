package dublincore

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/authorship/format"
	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/markup"
)

// Qualified dcterms dates and the PubDate type they map to.
var qualifiedDates = []struct{ tag, kind string }{
	{"issued", "issued"},
	{"created", "created"},
	{"available", "available"},
	{"modified", "modified"},
}

// Parse reads Dublin Core XML and returns one record per element set.
// It handles bare <metadata> elements, multiple records in a single document,
// and OAI-PMH wrapped responses where the DC elements sit inside wrapper
// elements.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Record, error) {
	tk, err := opts.Toolkit()
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing dublin core XML: %w", err)
	}

	sets := elementSets(doc.Root())
	if len(sets) == 0 {
		return nil, fmt.Errorf("no Dublin Core metadata elements found in input")
	}

	records := make([]*hub.Record, 0, len(sets))
	for _, set := range sets {
		rec := parseSet(tk, set)
		if opts != nil {
			rec.SourceName = opts.SourceName
		}
		records = append(records, rec)
	}
	return records, nil
}

// elementSets returns every element with at least one Dublin Core child, in
// document order.
func elementSets(root *etree.Element) []*etree.Element {
	if root == nil {
		return nil
	}
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			if isDC(c) {
				out = append(out, e)
				return
			}
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(root)
	return out
}

func isDC(e *etree.Element) bool {
	if e.Space == "dc" || e.Space == "dcterms" {
		return true
	}
	return strings.Contains(e.NamespaceURI(), "purl.org/dc/")
}

// elements returns the DC children of set with the given local name.
func elements(set *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range set.ChildElements() {
		if c.Tag == tag && isDC(c) {
			out = append(out, c)
		}
	}
	return out
}

func values(set *etree.Element, tag string) []string {
	var out []string
	for _, e := range elements(set, tag) {
		if v := strings.Join(strings.Fields(e.Text()), " "); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// detag sanitizes the character content of e. Harvested DC values often
// carry escaped markup, which is treated as markup here.
func detag(tk *format.Toolkit, e *etree.Element, field string) string {
	return tk.DetagText(e.Text(), field)
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func parseSet(tk *format.Toolkit, set *etree.Element) *hub.Record {
	rec := hub.NewRecord("dublincore")

	var titles []string
	for _, t := range elements(set, "title") {
		if s := detag(tk, t, markup.FieldTitle); s != "" {
			titles = append(titles, s)
		}
	}
	rec.Title = strings.Join(titles, ": ")

	for _, c := range values(set, "creator") {
		rec.Names = append(rec.Names, tk.Names.ParseList(c)...)
	}
	for _, c := range values(set, "contributor") {
		for _, n := range tk.Names.ParseList(c) {
			rec.Contributors.Contributors = append(rec.Contributors.Contributors, contributorOf(n))
		}
	}

	descriptions(tk, rec, set)

	for _, s := range elements(set, "subject") {
		if v := detag(tk, s, markup.FieldKeywords); v != "" {
			rec.Keywords = append(rec.Keywords, hub.Keyword{System: subjectScheme(s), String: v})
		}
	}

	rec.Publisher = first(values(set, "publisher"))
	rec.Language = first(values(set, "language"))
	rec.Publication = first(values(set, "source"))

	for _, d := range values(set, "date") {
		if pd := hub.ParsePubDate(d, tk.Tables); !pd.IsZero() {
			rec.PubDates = append(rec.PubDates, pd)
		}
	}
	for _, q := range qualifiedDates {
		for _, d := range values(set, q.tag) {
			pd := hub.ParsePubDate(d, tk.Tables)
			pd.Type = q.kind
			if !pd.IsZero() {
				rec.PubDates = append(rec.PubDates, pd)
			}
		}
	}

	for _, id := range values(set, "identifier") {
		rec.AddIdentifier(hub.NewIdentifier(id, hub.IdentifierUnknown))
	}
	rec.ID = rec.DOI()
	if rec.ID == "" {
		rec.ID = oaiIdentifier(set)
	}

	rights(tk, rec, set)

	tk.Converter.ConvertRecord(rec)
	return rec
}

// descriptions prefers dcterms:abstract for the abstract; without one the
// first dc:description is the abstract and the rest become comments.
func descriptions(tk *format.Toolkit, rec *hub.Record, set *etree.Element) {
	descs := elements(set, "description")

	for _, a := range elements(set, "abstract") {
		if s := detag(tk, a, markup.FieldAbstract); s != "" {
			rec.Abstract = s
			break
		}
	}
	for rec.Abstract == "" && len(descs) > 0 {
		rec.Abstract, descs = detag(tk, descs[0], markup.FieldAbstract), descs[1:]
	}

	for _, d := range descs {
		if s := detag(tk, d, markup.FieldComments); s != "" {
			rec.Comments = append(rec.Comments, s)
		}
	}
}

func rights(tk *format.Toolkit, rec *hub.Record, set *etree.Element) {
	var url, text string
	for _, tag := range []string{"rights", "license"} {
		for _, e := range elements(set, tag) {
			v := strings.TrimSpace(e.Text())
			switch {
			case v == "":
			case strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://"):
				if url == "" {
					url = v
				}
			case text == "":
				text = detag(tk, e, markup.FieldLicense)
			}
		}
	}
	if url != "" || text != "" {
		rec.License = hub.NewLicense("", url, text)
	}
	rec.Copyright = first(values(set, "rightsHolder"))
}

// subjectScheme returns the vocabulary of a subject from its xsi:type or
// scheme attribute.
func subjectScheme(e *etree.Element) string {
	scheme := e.SelectAttrValue("xsi:type", e.SelectAttrValue("scheme", ""))
	if i := strings.LastIndex(scheme, ":"); i >= 0 {
		scheme = scheme[i+1:]
	}
	return scheme
}

// oaiIdentifier returns the OAI-PMH header identifier of the record that
// wraps set, if any.
func oaiIdentifier(set *etree.Element) string {
	for e := set.Parent(); e != nil; e = e.Parent() {
		if e.Tag != "record" {
			continue
		}
		if id := e.FindElement("./header/identifier"); id != nil {
			return strings.TrimSpace(id.Text())
		}
		return ""
	}
	return ""
}

func contributorOf(n hub.Name) hub.Contributor {
	c := hub.Contributor{Role: "contributor"}
	switch v := n.(type) {
	case hub.ParsedName:
		c.Surname = v.Surname
		c.Given = strings.TrimSpace(v.Given + " " + v.Middle)
	case hub.Collaboration:
		c.Collab = v.Collab
	}
	return c
}
