// Package lookup holds the curated tables the name classifier and entity
// normalizer consult: known given names and surnames, honorific prefixes,
// suffixes, month names and the character entity table.
//
// Tables are loaded once at startup and are read-only afterwards, so a single
// *Tables can be shared by any number of goroutines.
package lookup

import (
	"strconv"
	"strings"
)

// Entity is one row of the entity table.
type Entity struct {
	CodePoint rune
	Name      string // without the surrounding & and ;
}

// Tables is the immutable set of lookup tables.
type Tables struct {
	firstNames map[string]struct{}
	lastNames  map[string]struct{}
	prefixes   map[string]struct{}
	suffixes   map[string]struct{}
	months     map[string]int

	entityByName map[string]rune
	nameByRune   map[rune]string
}

// IsFirstName reports whether token is a known given name.
func (t *Tables) IsFirstName(token string) bool {
	_, ok := t.firstNames[strings.ToUpper(token)]
	return ok
}

// IsLastName reports whether token is a known surname.
func (t *Tables) IsLastName(token string) bool {
	_, ok := t.lastNames[strings.ToUpper(token)]
	return ok
}

// IsPrefix reports whether token is an honorific prefix (Dr, Prof...).
func (t *Tables) IsPrefix(token string) bool {
	_, ok := t.prefixes[foldAffix(token)]
	return ok
}

// IsSuffix reports whether token is a name suffix (Jr., III, PhD...).
func (t *Tables) IsSuffix(token string) bool {
	_, ok := t.suffixes[foldAffix(token)]
	return ok
}

// Month returns the month number for a full or abbreviated English month
// name, or a numeric month string.
func (t *Tables) Month(name string) (int, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if n, err := strconv.Atoi(key); err == nil {
		return n, n >= 1 && n <= 12
	}
	if m, ok := t.months[key]; ok {
		return m, true
	}
	if len(key) > 3 {
		m, ok := t.months[key[:3]]
		return m, ok
	}
	return 0, false
}

// EntityRune returns the code point of a named entity such as "alpha".
func (t *Tables) EntityRune(name string) (rune, bool) {
	r, ok := t.entityByName[name]
	return r, ok
}

// EntityName returns the canonical entity name for a code point.
func (t *Tables) EntityName(r rune) (string, bool) {
	name, ok := t.nameByRune[r]
	return name, ok
}

// Len returns the number of entries in each table, keyed by file name.
func (t *Tables) Len() map[string]int {
	return map[string]int{
		FirstNamesFile: len(t.firstNames),
		LastNamesFile:  len(t.lastNames),
		PrefixesFile:   len(t.prefixes),
		SuffixesFile:   len(t.suffixes),
		MonthsFile:     distinct(t.months),
		EntitiesFile:   len(t.entityByName),
	}
}

// foldAffix normalises prefixes and suffixes so "Jr", "jr." and "JR" match.
func foldAffix(s string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(s)), ".")
}

func distinct(m map[string]int) int {
	seen := make(map[int]struct{}, len(m))
	for _, v := range m {
		seen[v] = struct{}{}
	}
	return len(seen)
}
