package jats

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/authorship/format"
	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/markup"
)

// Parse reads JATS XML and returns one record per article. The input may be
// a single <article> or any wrapper holding several.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*hub.Record, error) {
	tk, err := opts.Toolkit()
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing JATS XML: %w", err)
	}

	articles := articlesOf(doc)
	if len(articles) == 0 {
		return nil, fmt.Errorf("no JATS article elements found in input")
	}

	records := make([]*hub.Record, 0, len(articles))
	for i, article := range articles {
		rec, err := parseArticle(tk, article)
		if err != nil {
			return nil, fmt.Errorf("article %d: %w", i, err)
		}
		if opts != nil {
			rec.SourceName = opts.SourceName
		}
		records = append(records, rec)
	}
	return records, nil
}

func articlesOf(doc *etree.Document) []*etree.Element {
	root := doc.Root()
	if root == nil {
		return nil
	}
	if root.Tag == "article" {
		return []*etree.Element{root}
	}
	return root.FindElements(".//article")
}

func parseArticle(tk *format.Toolkit, article *etree.Element) (*hub.Record, error) {
	meta := article.FindElement("./front/article-meta")
	if meta == nil {
		return nil, fmt.Errorf("missing front/article-meta")
	}

	rec := hub.NewRecord("jats")
	rec.Language = article.SelectAttrValue("xml:lang", "")

	if tg := meta.SelectElement("title-group"); tg != nil {
		rec.Title = tk.Detag(tg.SelectElement("article-title"), markup.FieldTitle)
		rec.Subtitle = tk.Detag(tg.SelectElement("subtitle"), markup.FieldTitle)
	}
	rec.Abstract = tk.Detag(abstractOf(meta), markup.FieldAbstract)
	rec.Keywords = keywords(tk, meta)
	rec.Comments = comments(tk, meta)

	if journal := article.FindElement("./front/journal-meta"); journal != nil {
		rec.Publication = text(journal.FindElement(".//journal-title"))
		rec.Publisher = text(journal.FindElement("./publisher/publisher-name"))
		for _, issn := range journal.SelectElements("issn") {
			rec.AddIdentifier(hub.NewIdentifier(text(issn), hub.IdentifierISSN))
		}
	}

	for _, id := range meta.SelectElements("article-id") {
		rec.AddIdentifier(articleID(id))
	}
	rec.ID = rec.DOI()

	rec.PubDates = pubDates(tk, meta)
	permissions(tk, rec, meta.SelectElement("permissions"))

	for _, tag := range []string{"volume", "issue", "fpage", "lpage", "elocation-id"} {
		if v := text(meta.SelectElement(tag)); v != "" {
			rec.SetExtra(tag, v)
		}
	}

	rec.Contributors = tk.Resolver.Resolve(meta)
	tk.Converter.ConvertRecord(rec)
	return rec, nil
}

// abstractOf picks the main abstract (the first without an abstract-type)
// and returns a copy with its own heading removed and blocks spaced apart.
func abstractOf(meta *etree.Element) *etree.Element {
	abstracts := meta.SelectElements("abstract")
	if len(abstracts) == 0 {
		return nil
	}
	chosen := abstracts[0]
	for _, a := range abstracts {
		if a.SelectAttrValue("abstract-type", "") == "" {
			chosen = a
			break
		}
	}

	cp := chosen.Copy()
	for _, title := range cp.SelectElements("title") {
		cp.RemoveChild(title)
	}
	for _, label := range cp.SelectElements("label") {
		cp.RemoveChild(label)
	}
	for _, el := range cp.FindElements(".//*") {
		if !abstractBlocks[el.Tag] {
			continue
		}
		if parent := el.Parent(); parent != nil {
			parent.InsertChildAt(el.Index()+1, etree.NewText(" "))
		}
	}
	return cp
}

// abstractBlocks are the abstract elements whose text runs on into the next
// block once tags are stripped.
var abstractBlocks = map[string]bool{
	"p": true, "title": true, "label": true, "sec": true,
	"list-item": true, "def-item": true, "disp-quote": true,
}

func keywords(tk *format.Toolkit, meta *etree.Element) []hub.Keyword {
	var out []hub.Keyword
	for _, group := range meta.SelectElements("kwd-group") {
		system := group.SelectAttrValue("kwd-group-type", group.SelectAttrValue("vocab", ""))
		for _, kwd := range group.SelectElements("kwd") {
			if s := tk.Detag(kwd, markup.FieldKeywords); s != "" {
				out = append(out, hub.Keyword{System: system, String: s})
			}
		}
	}
	return out
}

// comments collects author notes that nothing cross-references.
func comments(tk *format.Toolkit, meta *etree.Element) []string {
	notes := meta.SelectElement("author-notes")
	if notes == nil {
		return nil
	}
	var out []string
	for _, fn := range notes.SelectElements("fn") {
		if fn.SelectAttrValue("id", "") != "" {
			continue
		}
		cp := fn.Copy()
		for _, label := range cp.SelectElements("label") {
			cp.RemoveChild(label)
		}
		if s := tk.Detag(cp, markup.FieldComments); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func articleID(el *etree.Element) hub.Identifier {
	value := text(el)
	switch t := strings.ToLower(el.SelectAttrValue("pub-id-type", "")); t {
	case "doi":
		return hub.NewIdentifier(value, hub.IdentifierDOI)
	case "arxiv":
		return hub.NewIdentifier(value, hub.IdentifierArXiv)
	case "handle":
		return hub.NewIdentifier(value, hub.IdentifierHandle)
	case "":
		return hub.NewIdentifier(value, hub.IdentifierUnknown)
	default:
		return hub.Identifier{Type: hub.IdentifierType(t), Value: value}
	}
}

func pubDates(tk *format.Toolkit, meta *etree.Element) []hub.PubDate {
	var out []hub.PubDate
	for _, el := range meta.SelectElements("pub-date") {
		var d hub.PubDate
		if s := el.SelectElement("string-date"); s != nil && el.SelectElement("year") == nil {
			d = hub.ParsePubDate(text(s), tk.Tables)
		} else {
			month := text(el.SelectElement("month"))
			if month == "" {
				month = text(el.SelectElement("season"))
			}
			d = hub.NewPubDate(text(el.SelectElement("year")), month, text(el.SelectElement("day")), tk.Tables)
		}
		d.Type = el.SelectAttrValue("pub-type", el.SelectAttrValue("date-type", el.SelectAttrValue("publication-format", "")))
		if !d.IsZero() {
			out = append(out, d)
		}
	}
	return out
}

func permissions(tk *format.Toolkit, rec *hub.Record, perms *etree.Element) {
	if perms == nil {
		return
	}

	if stmt := perms.SelectElement("copyright-statement"); stmt != nil {
		rec.Copyright = tk.Detag(stmt, "")
	} else {
		rec.Copyright = strings.Join(strings.Fields(
			text(perms.SelectElement("copyright-year"))+" "+text(perms.SelectElement("copyright-holder")),
		), " ")
	}

	lic := perms.SelectElement("license")
	if lic == nil {
		return
	}
	url := lic.SelectAttrValue("xlink:href", "")
	cp := lic.Copy()
	for _, ref := range cp.SelectElements("license_ref") {
		if url == "" {
			url = text(ref)
		}
		cp.RemoveChild(ref)
	}
	rec.License = hub.NewLicense(lic.SelectAttrValue("license-type", ""), url, tk.Detag(cp, markup.FieldLicense))
}

// text returns the whitespace-collapsed character data below el.
func text(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return strings.Join(strings.Fields(b.String()), " ")
}
