package jsonout

import (
	"github.com/lehigh-university-libraries/authorship/hub"
)

// fields collects map entries, dropping empty ones unless keepEmpty is set.
type fields struct {
	m         map[string]any
	keepEmpty bool
}

func newFields(keepEmpty bool) *fields {
	return &fields{m: make(map[string]any), keepEmpty: keepEmpty}
}

func (f *fields) set(key string, v any) {
	if !f.keepEmpty {
		switch x := v.(type) {
		case string:
			if x == "" {
				return
			}
		case []any:
			if len(x) == 0 {
				return
			}
		case map[string]any:
			if len(x) == 0 {
				return
			}
		}
	}
	f.m[key] = v
}

// RecordMap returns rec as structpb-compatible values. Classified names are
// listed under "names"; resolved people under "authors" and "contributors".
func RecordMap(rec *hub.Record, includeEmpty bool) map[string]any {
	f := newFields(includeEmpty)
	f.set("id", rec.ID)
	f.set("source_format", rec.SourceFormat)
	f.set("source_name", rec.SourceName)
	f.set("title", rec.Title)
	f.set("subtitle", rec.Subtitle)
	f.set("abstract", rec.Abstract)
	f.set("comments", stringList(rec.Comments))
	f.set("publication", rec.Publication)
	f.set("publisher", rec.Publisher)
	f.set("language", rec.Language)
	f.set("copyright", rec.Copyright)

	var keywords []any
	for _, k := range rec.Keywords {
		kw := newFields(includeEmpty)
		kw.set("system", k.System)
		kw.set("string", k.String)
		keywords = append(keywords, kw.m)
	}
	f.set("keywords", keywords)

	if d := rec.PrimaryDate(); !d.IsZero() {
		f.set("pub_date", d.String())
	}
	var dates []any
	for _, d := range rec.PubDates {
		pd := newFields(includeEmpty)
		pd.set("type", d.Type)
		pd.set("date", d.String())
		pd.set("raw", d.Raw)
		dates = append(dates, pd.m)
	}
	f.set("pub_dates", dates)

	lic := newFields(includeEmpty)
	lic.set("type", rec.License.Type)
	lic.set("url", rec.License.URL)
	lic.set("text", rec.License.Text)
	if !rec.License.IsZero() || includeEmpty {
		lic.m["open_access"] = rec.License.IsOpenAccess()
	}
	f.set("license", lic.m)

	var ids []any
	for _, id := range rec.Identifiers {
		ids = append(ids, map[string]any{"type": string(id.Type), "value": id.Value})
	}
	f.set("identifiers", ids)

	f.set("names", NameList(rec.Names))
	f.set("authors", contributorList(rec.Contributors.Authors, includeEmpty))
	f.set("contributors", contributorList(rec.Contributors.Contributors, includeEmpty))

	extra := make(map[string]any, len(rec.Extra))
	for _, k := range rec.ExtraKeys() {
		extra[k] = rec.Extra[k]
	}
	f.set("extra", extra)

	return f.m
}

// NameList returns classified names as structpb-compatible values.
func NameList(names []hub.Name) []any {
	var out []any
	for _, n := range names {
		out = append(out, NameMap(n))
	}
	return out
}

// NameMap returns one classified name. Personal names carry every part,
// empty or not, so consumers see a fixed shape.
func NameMap(n hub.Name) map[string]any {
	switch v := n.(type) {
	case hub.ParsedName:
		return map[string]any{
			"given":    v.Given,
			"middle":   v.Middle,
			"surname":  v.Surname,
			"prefix":   v.Prefix,
			"suffix":   v.Suffix,
			"name_raw": v.NameRaw,
			"inverted": hub.ParsedNameInverted(v),
		}
	case hub.Collaboration:
		return map[string]any{"collab": v.Collab, "name_raw": v.NameRaw}
	}
	return map[string]any{}
}

func contributorList(cs []hub.Contributor, includeEmpty bool) []any {
	var out []any
	for _, c := range cs {
		f := newFields(includeEmpty)
		f.set("surname", c.Surname)
		f.set("given", c.Given)
		f.set("native_language", c.NativeLanguage)
		f.set("collab", c.Collab)
		f.set("role", c.Role)
		f.set("email", c.Email)
		f.set("orcid", c.ORCID)
		f.m["correspondence"] = c.Correspondence
		f.set("affiliations", stringList(c.Affiliations))

		var groups []any
		for _, group := range c.AffiliationIDs {
			var ids []any
			for _, id := range group {
				ids = append(ids, map[string]any{"type": id.Type, "value": id.Value})
			}
			if ids == nil {
				ids = []any{}
			}
			groups = append(groups, ids)
		}
		f.set("affiliation_ids", groups)

		out = append(out, f.m)
	}
	return out
}

func stringList(ss []string) []any {
	out := make([]any, 0, len(ss))
	for _, s := range ss {
		out = append(out, s)
	}
	return out
}
