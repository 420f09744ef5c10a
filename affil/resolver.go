// Package affil resolves the contributors of a JATS-style contrib-group to
// their affiliations, e-mail addresses and ORCIDs, following cross-reference
// ids to blocks declared elsewhere in the document.
package affil

import (
	"log/slog"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/authorship/entities"
	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/lookup"
	"github.com/lehigh-university-libraries/authorship/markup"
	"github.com/lehigh-university-libraries/authorship/names"
)

// Resolver holds only read-only collaborators; the cross-reference tables
// live for one Resolve call, so a Resolver is safe for concurrent use.
type Resolver struct {
	parser    *names.Parser
	converter *entities.Converter
	tagsets   markup.TagSets
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for skipped keys and discarded candidates.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithNameParser sets the classifier used for unstructured string-name
// elements.
func WithNameParser(p *names.Parser) Option {
	return func(r *Resolver) { r.parser = p }
}

// WithConverter sets the entity normalizer applied to the result.
func WithConverter(c *entities.Converter) Option {
	return func(r *Resolver) { r.converter = c }
}

// WithTagSets overrides the allowlists; only the affiliations list is used.
func WithTagSets(ts markup.TagSets) Option {
	return func(r *Resolver) { r.tagsets = ts }
}

// NewResolver returns a resolver over tables. Without options it uses a
// default name parser, unicode entity output and the built-in allowlists.
func NewResolver(tables *lookup.Tables, opts ...Option) *Resolver {
	r := &Resolver{
		tagsets: markup.DefaultTagSets(),
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	if r.parser == nil {
		r.parser = names.NewParser(tables, names.WithLogger(r.logger))
	}
	if r.converter == nil {
		r.converter = entities.NewConverter(tables, entities.ModeUnicode)
	}
	return r
}

// Resolve extracts every contributor below scope, which is a contrib-group
// or an ancestor such as article-meta. The tree is not modified.
func (r *Resolver) Resolve(scope *etree.Element) hub.Contributors {
	var out hub.Contributors
	if scope == nil {
		return out
	}

	groups := []*etree.Element{scope}
	if scope.Tag != "contrib-group" {
		groups = findAll(scope, "contrib-group", "contrib-group", "contrib")
	}

	x := newXrefTables()
	var entries []entry

	// Phase A: contributors and the blocks they point at.
	for _, g := range groups {
		start := len(entries)
		for _, c := range findAll(g, "contrib", "contrib") {
			entries = append(entries, r.contrib(c, "")...)
		}

		fallback := hub.AllContributors
		for _, e := range entries[start:] {
			if e.author {
				fallback = hub.AllAuthors
				break
			}
		}
		for _, aff := range findAll(g, "aff", "contrib", "contrib-group") {
			r.addAffiliation(x, aff, fallback)
		}
		// groups nested in a collaboration declare blocks for its members
		for _, nested := range findAll(g, "contrib-group") {
			for _, aff := range findAll(nested, "aff", "contrib", "contrib-group") {
				r.addAffiliation(x, aff, fallback)
			}
		}
	}
	if scope.Tag != "contrib-group" {
		for _, aff := range findAll(scope, "aff", "contrib-group", "contrib", "author-notes") {
			r.addAffiliation(x, aff, hub.AllAuthors)
		}
		for _, notes := range findAll(scope, "author-notes", "contrib-group") {
			r.addNotes(x, notes)
		}
	}
	r.logger.Debug("cross-reference tables built",
		"contributors", len(entries),
		"affiliation_keys", x.affiliations.len(),
		"email_keys", x.emails.len())

	// Phase B: follow the keys, then settle on one e-mail and one ORCID.
	for i := range entries {
		e := &entries[i]
		r.match(x, e)
		r.collapse(e)
		if e.author {
			out.Authors = append(out.Authors, e.Contributor)
		} else {
			out.Contributors = append(out.Contributors, e.Contributor)
		}
	}

	r.converter.ConvertRecord(&out)
	return out
}

func (r *Resolver) tidy(s string) string {
	return strings.Join(strings.Fields(r.converter.Unescape(s)), " ")
}
