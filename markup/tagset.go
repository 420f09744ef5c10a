package markup

import (
	"fmt"
	"sort"
	"strings"
)

// TagSet is the set of tag names allowed to survive Detag.
type TagSet map[string]struct{}

// NewTagSet builds a TagSet. Names are lower-cased to match the parser.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			s[t] = struct{}{}
		}
	}
	return s
}

// Has reports whether tag is allowed.
func (s TagSet) Has(tag string) bool {
	_, ok := s[strings.ToLower(tag)]
	return ok
}

// Tags returns the allowed names in sorted order.
func (s TagSet) Tags() []string {
	tags := make([]string, 0, len(s))
	for t := range s {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Union returns a new set holding the tags of s and other.
func (s TagSet) Union(other TagSet) TagSet {
	u := make(TagSet, len(s)+len(other))
	for t := range s {
		u[t] = struct{}{}
	}
	for t := range other {
		u[t] = struct{}{}
	}
	return u
}

// Semantic fields with their own allowlist.
const (
	FieldTitle        = "title"
	FieldAbstract     = "abstract"
	FieldKeywords     = "keywords"
	FieldAffiliations = "affiliations"
	FieldComments     = "comments"
	FieldLicense      = "license"
)

var (
	mathTags = NewTagSet(
		"inline-formula", "tex-math",
		"mml:math", "mml:semantics", "mml:mrow", "mml:munder", "mml:mo",
		"mml:mi", "mml:msub", "mml:mover", "mml:mn", "mml:annotation",
	)
	htmlTags = NewTagSet("sub", "sup", "a", "astrobj")

	defaultTagSets = map[string]TagSet{
		FieldTitle:        mathTags.Union(htmlTags),
		FieldAbstract:     mathTags.Union(htmlTags).Union(NewTagSet("pre", "br")),
		FieldComments:     mathTags.Union(htmlTags).Union(NewTagSet("pre", "br")),
		FieldKeywords:     NewTagSet("astrobj"),
		FieldAffiliations: NewTagSet("email", "orcid"),
		FieldLicense:      NewTagSet("a", "br"),
	}
)

// DefaultTagSet returns a copy of the built-in allowlist for field.
func DefaultTagSet(field string) (TagSet, error) {
	s, ok := defaultTagSets[field]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", field)
	}
	return s.Union(nil), nil
}

// Fields lists the fields that have a built-in allowlist.
func Fields() []string {
	return []string{FieldTitle, FieldAbstract, FieldKeywords, FieldAffiliations, FieldComments, FieldLicense}
}

// TagSets maps each field to its allowlist. The zero value falls back to the
// built-in lists.
type TagSets map[string]TagSet

// DefaultTagSets returns a fresh copy of all built-in allowlists.
func DefaultTagSets() TagSets {
	sets := make(TagSets, len(defaultTagSets))
	for f, s := range defaultTagSets {
		sets[f] = s.Union(nil)
	}
	return sets
}

// For returns the allowlist for field, falling back to the built-in one and
// finally to the empty set.
func (ts TagSets) For(field string) TagSet {
	if s, ok := ts[field]; ok {
		return s
	}
	if s, ok := defaultTagSets[field]; ok {
		return s
	}
	return TagSet{}
}

// Override returns a copy of ts with the given fields replaced.
func (ts TagSets) Override(fields map[string][]string) TagSets {
	out := make(TagSets, len(ts)+len(fields))
	for f, s := range ts {
		out[f] = s
	}
	for f, tags := range fields {
		out[f] = NewTagSet(tags...)
	}
	return out
}
