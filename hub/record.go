package hub

import (
	"sort"
)

// Keyword is one subject term with the vocabulary it came from.
type Keyword struct {
	System string `json:"system,omitempty"`
	String string `json:"string"`
}

// License is the rights statement attached to a document.
type License struct {
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
	Text string `json:"text,omitempty"`
}

// Record is what a source format hands back for one document: sanitized
// free-text fields plus either classified names (unstructured sources) or
// resolved contributors (structured sources).
type Record struct {
	ID           string            `json:"id,omitempty"`
	SourceFormat string            `json:"source_format,omitempty"`
	SourceName   string            `json:"source_name,omitempty"`
	Title        string            `json:"title,omitempty"`
	Subtitle     string            `json:"subtitle,omitempty"`
	Abstract     string            `json:"abstract,omitempty"`
	Comments     []string          `json:"comments,omitempty"`
	Keywords     []Keyword         `json:"keywords,omitempty"`
	Publication  string            `json:"publication,omitempty"`
	Publisher    string            `json:"publisher,omitempty"`
	Language     string            `json:"language,omitempty"`
	PubDates     []PubDate         `json:"pub_dates,omitempty"`
	Copyright    string            `json:"copyright,omitempty"`
	License      License           `json:"license"`
	Identifiers  []Identifier      `json:"identifiers,omitempty"`
	Names        []Name            `json:"-"`
	Contributors Contributors      `json:"contributors"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// NewRecord creates an empty record for the given source format.
func NewRecord(sourceFormat string) *Record {
	return &Record{
		SourceFormat: sourceFormat,
		Extra:        make(map[string]string),
	}
}

// DOI returns the first DOI identifier value, if any.
func (r *Record) DOI() string {
	for _, id := range r.Identifiers {
		if id.Type == IdentifierDOI {
			return id.Value
		}
	}
	return ""
}

// AddIdentifier appends id unless an identical one is already present.
func (r *Record) AddIdentifier(id Identifier) {
	if id.Value == "" {
		return
	}
	for _, have := range r.Identifiers {
		if have == id {
			return
		}
	}
	r.Identifiers = append(r.Identifiers, id)
}

// PrimaryDate returns the most appropriate publication date: electronic
// first, then print, then whatever comes first.
func (r *Record) PrimaryDate() PubDate {
	for _, want := range []string{"epub", "pub", "ppub"} {
		for _, d := range r.PubDates {
			if d.Type == want && !d.IsZero() {
				return d
			}
		}
	}
	for _, d := range r.PubDates {
		if !d.IsZero() {
			return d
		}
	}
	return PubDate{}
}

// People returns every person or group named by the record as resolved
// contributors. Classified names are folded into the author list.
func (r *Record) People() Contributors {
	out := Contributors{
		Authors:      append([]Contributor(nil), r.Contributors.Authors...),
		Contributors: append([]Contributor(nil), r.Contributors.Contributors...),
	}
	for _, n := range r.Names {
		switch v := n.(type) {
		case ParsedName:
			given := v.Given
			if v.Middle != "" {
				given += " " + v.Middle
			}
			out.Authors = append(out.Authors, Contributor{Surname: v.Surname, Given: given})
		case Collaboration:
			out.Authors = append(out.Authors, Contributor{Collab: v.Collab})
		}
	}
	return out
}

// SetExtra records a source-specific value that has no dedicated field.
func (r *Record) SetExtra(key, value string) {
	if r.Extra == nil {
		r.Extra = make(map[string]string)
	}
	r.Extra[key] = value
}

// GetExtra returns a source-specific value.
func (r *Record) GetExtra(key string) (string, bool) {
	v, ok := r.Extra[key]
	return v, ok
}

// ExtraKeys returns the extra keys in sorted order.
func (r *Record) ExtraKeys() []string {
	keys := make([]string, 0, len(r.Extra))
	for k := range r.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
