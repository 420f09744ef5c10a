package affil

import (
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/authorship/hub"
)

// multimap is an insertion-ordered map where a repeated key appends.
type multimap[V any] struct {
	keys    []string
	entries map[string][]V
}

func newMultimap[V any]() *multimap[V] {
	return &multimap[V]{entries: make(map[string][]V)}
}

func (m *multimap[V]) add(key string, values ...V) {
	if len(values) == 0 {
		return
	}
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = append(m.entries[key], values...)
}

func (m *multimap[V]) get(key string) ([]V, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *multimap[V]) len() int {
	return len(m.keys)
}

// xrefTables are the cross-reference dictionaries of one resolve call.
type xrefTables struct {
	affiliations *multimap[hub.AffiliationRecord]
	emails       *multimap[string]
}

func newXrefTables() *xrefTables {
	return &xrefTables{
		affiliations: newMultimap[hub.AffiliationRecord](),
		emails:       newMultimap[string](),
	}
}

// addAffiliation registers an aff block under its id, or under fallback
// when it has none. Any e-mail it carries is registered under the same
// key, and ext-link addresses with their own id under that id.
func (r *Resolver) addAffiliation(x *xrefTables, aff *etree.Element, fallback string) {
	for _, link := range findAll(aff, "ext-link") {
		if id := attr(link, "id"); id != "" {
			x.emails.add(id, textOf(link))
		}
	}

	rec, emails := r.affiliation(aff)
	if rec.Key == "" {
		rec.Key = fallback
	}
	x.emails.add(rec.Key, emails...)
	if rec.Text != "" {
		x.affiliations.add(rec.Key, rec)
	}
}

// addNotes registers author-notes corresp and fn blocks that carry an id.
// Addresses go to the e-mail table; an fn without any address is kept as
// an affiliation (present address and the like).
func (r *Resolver) addNotes(x *xrefTables, notes *etree.Element) {
	for _, note := range append(findAll(notes, "corresp"), findAll(notes, "fn")...) {
		id := attr(note, "id")
		if id == "" {
			continue
		}

		emails := noteEmails(note)
		x.emails.add(id, emails...)
		if note.Tag == "fn" && len(emails) == 0 {
			if text := textOf(note, "label", "sup"); text != "" {
				x.affiliations.add(id, hub.AffiliationRecord{Key: id, Text: text})
			}
		}
	}
}

// noteEmails returns the e-mail nodes of a note, or failing that the
// whitespace-separated words of its text that contain "@".
func noteEmails(note *etree.Element) []string {
	var out []string
	for _, em := range findAll(note, "email") {
		out = append(out, textOf(em))
	}
	for _, link := range findAll(note, "ext-link") {
		if strings.EqualFold(attr(link, "ext-link-type"), "email") {
			out = append(out, textOf(link))
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, w := range strings.Fields(textOf(note, "label", "sup")) {
		if strings.Contains(w, "@") {
			out = append(out, w)
		}
	}
	return out
}

// splitKeys splits xref rid values on whitespace and commas.
func splitKeys(values []string) []string {
	var keys []string
	for _, v := range values {
		keys = append(keys, strings.FieldsFunc(v, func(r rune) bool {
			return unicode.IsSpace(r) || r == ','
		})...)
	}
	return keys
}

// match resolves the xref keys of e against the tables. Sentinel blocks
// apply only when nothing more specific was found.
func (r *Resolver) match(x *xrefTables, e *entry) {
	for _, key := range splitKeys(e.XrefAffiliations) {
		recs, foundAff := x.affiliations.get(key)
		for _, rec := range recs {
			e.Affiliations = append(e.Affiliations, rec.Text)
			e.AffiliationIDs = append(e.AffiliationIDs, rec.ExtraIDs)
		}
		emails, foundEmail := x.emails.get(key)
		e.emails = append(e.emails, emails...)
		if !foundAff && !foundEmail {
			r.logger.Info("cross-reference key not found", "contributor", e.Name(), "key", key, "type", "aff")
		}
	}

	for _, key := range splitKeys(e.XrefEmails) {
		emails, ok := x.emails.get(key)
		if !ok {
			r.logger.Info("cross-reference key not found", "contributor", e.Name(), "key", key, "type", "corresp")
			continue
		}
		e.emails = append(e.emails, emails...)
	}

	if len(e.Affiliations) > 0 {
		return
	}
	sentinel := hub.AllContributors
	if e.author {
		sentinel = hub.AllAuthors
	}
	recs, _ := x.affiliations.get(sentinel)
	for _, rec := range recs {
		e.Affiliations = append(e.Affiliations, rec.Text)
		e.AffiliationIDs = append(e.AffiliationIDs, rec.ExtraIDs)
	}
}

// collapse reduces the candidate lists to the first valid e-mail and
// ORCID. Candidates are split on whitespace and de-duplicated first.
func (r *Resolver) collapse(e *entry) {
	e.Email = r.pick(e, "email", e.emails, func(s string) string {
		return strings.Trim(hub.NormalizeEmail(s), ".,;:()<>[]")
	}, hub.ValidEmail)
	e.ORCID = r.pick(e, "orcid", e.orcids, hub.NormalizeORCID, hub.ValidORCID)
	e.emails, e.orcids = nil, nil
}

func (r *Resolver) pick(e *entry, kind string, raw []string, normalize func(string) string, valid func(string) bool) string {
	seen := make(map[string]bool)
	var candidates []string
	for _, s := range raw {
		for _, w := range strings.Fields(s) {
			w = normalize(w)
			if kind == "email" && !strings.Contains(w, "@") {
				continue
			}
			if w == "" || seen[w] {
				continue
			}
			seen[w] = true
			candidates = append(candidates, w)
		}
	}

	var chosen string
	for _, c := range candidates {
		switch {
		case !valid(c):
			r.logger.Warn("discarding invalid "+kind, "contributor", e.Name(), "value", c)
		case chosen == "":
			chosen = c
		default:
			r.logger.Info("discarding extra "+kind, "contributor", e.Name(), "kept", chosen, "value", c)
		}
	}
	return chosen
}
