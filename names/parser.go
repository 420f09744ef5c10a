// Package names classifies raw author strings into personal names and
// collaborations, using the curated given-name and surname tables to decide
// where ambiguous tokens belong.
package names

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/lehigh-university-libraries/authorship/entities"
	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/lookup"
)

// Parser classifies author strings. It holds no per-call state and is safe
// for concurrent use.
type Parser struct {
	tables    *lookup.Tables
	converter *entities.Converter
	config    Config
}

// NewParser returns a parser over tables with the default policy adjusted
// by opts.
func NewParser(tables *lookup.Tables, opts ...Option) *Parser {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Parser{
		tables:    tables,
		converter: entities.NewConverter(tables, entities.ModeUnicode),
		config:    cfg,
	}
}

// Config returns the parser's default policy.
func (p *Parser) Config() Config {
	return p.config
}

// Parse classifies a single author string. A string naming a collaboration
// yields one Collaboration per labelled segment plus a ParsedName for any
// first author split off by the delimiter; anything else yields exactly one
// ParsedName. Blank input yields nothing.
func (p *Parser) Parse(raw string, opts ...Option) []hub.Name {
	cfg := p.config
	for _, o := range opts {
		o(&cfg)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cleaned := clean(raw)
	if cleaned == "" {
		return nil
	}

	if out, ok := p.collaboration(cleaned, cfg); ok {
		logger.Debug("collaboration string", "raw", raw, "entries", len(out))
		return out
	}
	return []hub.Name{p.parseName(cleaned, cfg)}
}

// ParseList splits a string holding several authors (see SplitNames) and
// classifies each of them.
func (p *Parser) ParseList(raw string, opts ...Option) []hub.Name {
	var out []hub.Name
	for _, name := range SplitNames(raw) {
		out = append(out, p.Parse(name, opts...)...)
	}
	return out
}

var leadingMark = regexp.MustCompile(`^-|^'`)

// parseName splits one personal name and moves ambiguous tokens between
// middle and surname using the name tables.
func (p *Parser) parseName(s string, cfg Config) hub.ParsedName {
	n := p.split(s, cfg.ParseTitles)

	if n.first == "Jr." && n.suffix != "" {
		n.first, n.suffix = n.suffix, "Jr."
	}

	p.reclassifyMiddle(&n, cfg.DefaultToLastName)
	p.verifySurname(&n)

	return hub.ParsedName{
		Given:   p.tidy(n.first),
		Middle:  p.tidy(n.middle),
		Surname: p.tidy(n.last),
		Prefix:  p.tidy(n.title),
		Suffix:  p.tidy(n.suffix),
		NameRaw: p.tidy(s),
	}
}

// reclassifyMiddle walks the middle tokens left to right. Known given names
// and short initials stay in the middle; known surnames, and everything
// after one, move to the surname. A given name seen after a surname token
// means the surname guess was wrong, so the pending tokens return to the
// middle.
func (p *Parser) reclassifyMiddle(n *parts, defaultToLast bool) {
	if n.middle == "" {
		return
	}

	var keep, toLast []string
	lastFound := false

	for _, m := range strings.Fields(n.middle) {
		upper := strings.ToUpper(m)
		bare := leadingMark.ReplaceAllString(upper, "")
		length := utf8.RuneCountInString(strings.Trim(strings.Trim(p.converter.Unescape(m), "."), "-"))

		isGiven := (p.tables.IsFirstName(bare) && !p.tables.IsLastName(bare)) ||
			(length <= 2 && !p.tables.IsLastName(upper) && !strings.Contains(m, "'"))

		switch {
		case isGiven:
			if lastFound {
				keep = append(keep, toLast...)
				toLast = nil
				lastFound = false
			}
			keep = append(keep, m)
		case lastFound || p.tables.IsLastName(upper):
			toLast = append(toLast, m)
			lastFound = true
		case defaultToLast:
			toLast = append(toLast, m)
			lastFound = true
		default:
			keep = append(keep, m)
		}
	}

	n.middle = strings.Join(keep, " ")
	n.last = joinNonEmpty(strings.Join(toLast, " "), n.last)
}

// verifySurname moves leading surname tokens that are only known as given
// names to the middle, up to the first real surname token. The final token
// is always kept.
func (p *Parser) verifySurname(n *parts) {
	tokens := strings.Fields(n.last)
	if len(tokens) < 2 {
		return
	}

	final := tokens[len(tokens)-1]
	var verified []string
	found := false
	for _, t := range tokens[:len(tokens)-1] {
		if !found && p.tables.IsFirstName(t) && !p.tables.IsLastName(t) {
			n.middle = joinNonEmpty(n.middle, t)
			continue
		}
		verified = append(verified, t)
		found = true
	}
	n.last = strings.Join(append(verified, final), " ")
}

// tidy decodes character references and collapses spaces.
func (p *Parser) tidy(s string) string {
	return strings.Join(strings.Fields(p.converter.Unescape(s)), " ")
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
