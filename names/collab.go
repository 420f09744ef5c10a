package names

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/authorship/hub"
)

// collaboration checks s for the first configured keyword. When one is
// present every delimiter-separated segment carrying it becomes a
// Collaboration and the remaining segments are parsed as personal names.
func (p *Parser) collaboration(s string, cfg Config) ([]hub.Name, bool) {
	params := cfg.Collaborations
	lower := strings.ToLower(s)

	for _, kw := range params.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || !strings.Contains(lower, kw) {
			continue
		}

		segments := []string{s}
		if params.FirstAuthorDelimiter != "" {
			segments = strings.Split(s, params.FirstAuthorDelimiter)
		}

		var out []hub.Name
		for _, seg := range segments {
			seg = strings.TrimSpace(seg)
			if seg == "" {
				continue
			}
			if !strings.Contains(strings.ToLower(seg), kw) {
				out = append(out, p.parseName(seg, cfg))
				continue
			}
			out = append(out, hub.Collaboration{
				Collab:  p.tidy(collabLabel(seg, kw, params)),
				NameRaw: p.tidy(seg),
			})
		}
		return out, true
	}

	return nil, false
}

func collabLabel(seg, kw string, params CollaborationParams) string {
	label := strings.ReplaceAll(seg, kw, capitalize(kw))
	if params.RemoveLeadingArticle {
		label = leadingThe.ReplaceAllString(label, "")
	}
	if params.FixMixedOrder {
		if parts := strings.Split(label, ","); len(parts) == 2 {
			label = strings.TrimSpace(parts[1]) + " " + strings.TrimSpace(parts[0])
		}
	}
	return strings.TrimSpace(label)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
