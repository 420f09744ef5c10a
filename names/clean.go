package names

import (
	"regexp"
	"strings"
)

var (
	etAl       = regexp.MustCompile(`,? et ?al\.?`)
	spaceRun   = regexp.MustCompile(`\s+`)
	leadingThe = regexp.MustCompile(`^[Tt]he `)
)

// clean normalizes punctuation in a raw author string: initials get a
// trailing space, "et al." and " and " are dropped, stray spaces before
// punctuation are removed and whitespace is collapsed.
func clean(s string) string {
	s = spaceInitials(s)
	s = etAl.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " and ", " ")
	s = strings.ReplaceAll(s, " .", ".")
	s = strings.ReplaceAll(s, " ,", ",")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// spaceInitials rewrites "." plus any run of spaces to ". ", except when the
// next non-space character is a comma: "J.R.R." becomes "J. R. R. ".
func spaceInitials(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		if s[i] != '.' {
			b.WriteByte(s[i])
			i++
			continue
		}
		j := i + 1
		for j < len(s) && s[j] == ' ' {
			j++
		}
		if j < len(s) && s[j] == ',' {
			b.WriteString(s[i:j])
		} else {
			b.WriteString(". ")
		}
		i = j
	}
	return b.String()
}

// SplitNames splits a string holding several names on semicolons, on
// " and " when no comma is present, or on pipes.
func SplitNames(names string) []string {
	if strings.TrimSpace(names) == "" {
		return nil
	}

	switch {
	case strings.Contains(names, ";"):
		return cleanNameList(strings.Split(names, ";"))
	case strings.Contains(names, " and ") && !strings.Contains(names, ","):
		return cleanNameList(strings.Split(names, " and "))
	case strings.Contains(names, "|"):
		return cleanNameList(strings.Split(names, "|"))
	}

	return []string{strings.TrimSpace(names)}
}

func cleanNameList(parts []string) []string {
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
