package affil

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/markup"
)

// entry is a contributor between extraction and resolution. E-mail and
// ORCID candidates stay lists until the final collapse.
type entry struct {
	hub.Contributor
	author bool
	emails []string
	orcids []string
}

// Leading e-mail address inside an affiliation string.
var emailPrefix = regexp.MustCompile(`^[a-zA-Z0-9+_.-]+@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)+`)

// Elements left out of a collaboration label.
var collabNoise = []string{"contrib-group", "contrib", "aff", "address", "xref", "email", "ext-link", "contrib-id", "uri", "label", "sup"}

// contrib extracts one contrib element. A collaboration yields its own
// entry followed by the contributors nested inside it.
func (r *Resolver) contrib(el *etree.Element, inherited string) []entry {
	contribType := attr(el, "contrib-type")
	collabEl := el.SelectElement("collab")

	if collabEl == nil && contribType != "collab" {
		return []entry{r.person(el, contribType, inherited)}
	}

	label := textOf(collabEl, collabNoise...)
	if label == "" {
		label = textOf(el.SelectElement("collab-name"))
	}
	if label == "" {
		label = inherited
	}

	group := entry{author: hub.IsAuthorRole(contribType)}
	group.Collab = label
	if !group.author {
		group.Role = r.role(el, contribType)
	}
	r.affiliations(el, &group)
	if collabEl != nil {
		if text := textOf(collabEl.SelectElement("address")); text != "" {
			group.Affiliations = append(group.Affiliations, text)
			group.AffiliationIDs = append(group.AffiliationIDs, nil)
		}
	}
	r.xrefs(el, &group)
	r.contacts(el, &group)

	out := []entry{group}
	for _, nested := range findAll(el, "contrib", "contrib") {
		out = append(out, r.contrib(nested, label)...)
	}
	r.logger.Debug("collaboration", "label", label, "members", len(out)-1)
	return out
}

func (r *Resolver) person(el *etree.Element, contribType, collab string) entry {
	e := entry{author: hub.IsAuthorRole(contribType)}
	e.Collab = collab
	e.Surname, e.Given, e.NativeLanguage = r.name(el)
	e.Correspondence = attr(el, "corresp") == "yes"
	if !e.author {
		e.Role = r.role(el, contribType)
	}

	r.affiliations(el, &e)
	r.xrefs(el, &e)
	r.contacts(el, &e)
	return e
}

func (r *Resolver) role(el *etree.Element, contribType string) string {
	if role := textOf(el.SelectElement("role")); role != "" {
		return role
	}
	return contribType
}

// name reads the structured name of a contributor. With name-alternatives
// the first English (or untagged) variant is the name and the first other
// language variant fills native.
func (r *Resolver) name(el *etree.Element) (surname, given, native string) {
	candidates := append(el.SelectElements("name"), el.SelectElements("string-name")...)
	if alt := el.SelectElement("name-alternatives"); alt != nil {
		candidates = append(candidates, alt.ChildElements()...)
	}

	found := false
	for _, n := range candidates {
		if n.Tag != "name" && n.Tag != "string-name" {
			continue
		}
		lang := strings.ToLower(attr(n, "xml:lang", "lang"))
		if lang != "" && !strings.HasPrefix(lang, "en") {
			if native == "" {
				native = r.nativeName(n)
			}
			continue
		}
		if found {
			continue
		}
		surname, given = r.nameParts(n)
		found = surname != "" || given != ""
	}
	return surname, given, native
}

// nameParts splits a name or string-name element. A string-name without
// structured parts goes through the name classifier.
func (r *Resolver) nameParts(n *etree.Element) (surname, given string) {
	sn, gn := n.SelectElement("surname"), n.SelectElement("given-names")
	if sn != nil || gn != nil {
		return r.tidy(textOf(sn)), r.tidy(textOf(gn))
	}
	if n.Tag != "string-name" {
		return "", ""
	}

	for _, parsed := range r.parser.Parse(textOf(n)) {
		if p, ok := parsed.(hub.ParsedName); ok {
			return p.Surname, strings.TrimSpace(p.Given + " " + p.Middle)
		}
	}
	return "", ""
}

func (r *Resolver) nativeName(n *etree.Element) string {
	sn, gn := r.tidy(textOf(n.SelectElement("surname"))), r.tidy(textOf(n.SelectElement("given-names")))
	switch {
	case sn == "" && gn == "":
		return r.tidy(textOf(n))
	case attr(n, "name-style") == "eastern":
		return sn + gn
	}
	return strings.TrimSpace(gn + " " + sn)
}

// affiliations collects inline aff blocks.
func (r *Resolver) affiliations(el *etree.Element, e *entry) {
	for _, aff := range findAll(el, "aff", "contrib", "contrib-group") {
		rec, emails := r.affiliation(aff)
		e.emails = append(e.emails, emails...)
		if rec.Text == "" {
			continue
		}
		e.Affiliations = append(e.Affiliations, rec.Text)
		e.AffiliationIDs = append(e.AffiliationIDs, rec.ExtraIDs)
	}
}

// xrefs records outward cross-reference keys. A corresp xref also marks
// the contributor as corresponding author.
func (r *Resolver) xrefs(el *etree.Element, e *entry) {
	for _, x := range findAll(el, "xref", "contrib") {
		rid := attr(x, "rid")
		if rid == "" {
			continue
		}
		switch attr(x, "ref-type") {
		case "aff", "fn":
			e.XrefAffiliations = append(e.XrefAffiliations, rid)
		case "corresp":
			e.XrefEmails = append(e.XrefEmails, rid)
			e.Correspondence = true
		}
	}
}

// contacts collects inline e-mail and ORCID candidates outside of aff
// blocks.
func (r *Resolver) contacts(el *etree.Element, e *entry) {
	for _, em := range findAll(el, "email", "contrib", "aff") {
		e.emails = append(e.emails, textOf(em))
	}
	for _, id := range findAll(el, "contrib-id", "contrib", "aff") {
		if strings.EqualFold(attr(id, "contrib-id-type"), "orcid") {
			e.orcids = append(e.orcids, orcidText(id))
		}
	}
	for _, link := range findAll(el, "ext-link", "contrib", "aff") {
		switch strings.ToLower(attr(link, "ext-link-type")) {
		case "orcid":
			e.orcids = append(e.orcids, orcidText(link))
		case "email":
			e.emails = append(e.emails, textOf(link))
		}
	}
	for _, uri := range findAll(el, "uri", "contrib", "aff") {
		if strings.EqualFold(attr(uri, "content-type"), "orcid") {
			e.orcids = append(e.orcids, orcidText(uri))
		}
	}
}

func orcidText(el *etree.Element) string {
	if s := textOf(el); s != "" {
		return s
	}
	return attr(el, "xlink:href", "href")
}

// affiliation reduces an aff block to its text. Labels, superscripts,
// cross-references and contact nodes are dropped; institution ids become
// ExtraIDs and e-mail addresses are returned separately.
func (r *Resolver) affiliation(aff *etree.Element) (hub.AffiliationRecord, []string) {
	rec := hub.AffiliationRecord{Key: attr(aff, "id")}

	for _, id := range findAll(aff, "institution-id") {
		if v := textOf(id); v != "" {
			rec.ExtraIDs = append(rec.ExtraIDs, hub.ExtraID{Type: attr(id, "institution-id-type"), Value: v})
		}
	}

	var emails []string
	for _, em := range findAll(aff, "email") {
		emails = append(emails, textOf(em))
	}
	for _, link := range findAll(aff, "ext-link") {
		if strings.EqualFold(attr(link, "ext-link-type"), "email") {
			emails = append(emails, textOf(link))
		}
	}

	pruned := prune(aff, func(c *etree.Element) bool {
		switch c.Tag {
		case "label", "sup", "xref", "institution-id", "email", "contrib-id":
			return true
		case "ext-link":
			t := strings.ToLower(attr(c, "ext-link-type"))
			return t == "email" || t == "orcid"
		case "uri":
			return strings.EqualFold(attr(c, "content-type"), "orcid")
		}
		return false
	})
	text := markup.DetagElement(pruned, r.tagsets.For(markup.FieldAffiliations), markup.WithLogger(r.logger))
	text = spaceComma.ReplaceAllString(text, ",")

	text, inline := splitAffiliation(text)
	rec.Text = text
	return rec, append(emails, inline...)
}

// splitAffiliation separates e-mail addresses written into the
// affiliation string between semicolons. Parts holding only commas and
// spaces are dropped.
func splitAffiliation(s string) (string, []string) {
	var kept, emails []string
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if emailPrefix.MatchString(part) {
			emails = append(emails, part)
			continue
		}
		if strings.Trim(part, ", ") != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "; "), emails
}
