// Package entities converts HTML/XML character entity references to a
// canonical representation: Unicode letters where the script is one a
// bibliographic record normally carries, named references for everything
// else, or a plain ASCII transliteration.
package entities

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/lehigh-university-libraries/authorship/lookup"
)

// Mode selects the target representation.
type Mode string

const (
	ModeUnicode Mode = "unicode"
	ModeASCII   Mode = "ascii"
)

// ParseMode validates a mode name from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeUnicode:
		return ModeUnicode, nil
	case ModeASCII:
		return ModeASCII, nil
	}
	return "", fmt.Errorf("unknown entity mode %q (want unicode or ascii)", s)
}

// Reference matches a single named, decimal or hex character reference.
var Reference = regexp.MustCompile(`&(#[0-9]+|#[xX][0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)

// Markup-significant characters always stay escaped.
var reserved = map[rune]string{
	'&': "&amp;",
	'<': "&lt;",
	'>': "&gt;",
}

// Ranges whose letters are written out as characters in unicode mode.
var letterRanges = []*unicode.RangeTable{
	{R16: []unicode.Range16{
		{Lo: 0x00A0, Hi: 0x00FF, Stride: 1}, // Latin-1 Supplement
		{Lo: 0x0100, Hi: 0x024F, Stride: 1}, // Latin Extended-A and -B
		{Lo: 0x0370, Hi: 0x03FF, Stride: 1}, // Greek and Coptic
		{Lo: 0x1E00, Hi: 0x1EFF, Stride: 1}, // Latin Extended Additional
	}},
}

// Converter rewrites entity references against a lookup table.
// A Converter holds no mutable state and may be shared between goroutines.
type Converter struct {
	tables *lookup.Tables
	mode   Mode
}

// NewConverter returns a converter for the given mode.
func NewConverter(tables *lookup.Tables, mode Mode) *Converter {
	if mode == "" {
		mode = ModeUnicode
	}
	return &Converter{
		tables: tables,
		mode:   mode,
	}
}

// Mode reports the converter's target representation.
func (c *Converter) Mode() Mode {
	return c.mode
}

// Convert normalizes every entity reference in text. In ASCII mode literal
// non-ASCII characters are transliterated as well.
func (c *Converter) Convert(text string) string {
	if text == "" {
		return text
	}
	if c.mode == ModeASCII {
		return c.toASCII(text)
	}
	if !strings.Contains(text, "&") {
		return text
	}
	return Reference.ReplaceAllStringFunc(text, func(ref string) string {
		r, ok := c.decode(ref)
		if !ok {
			return ref
		}
		return c.canonical(r)
	})
}

// Unescape decodes every reference it recognizes, including &amp;, &lt; and
// &gt;. Unknown references are left untouched.
func (c *Converter) Unescape(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}
	return Reference.ReplaceAllStringFunc(text, func(ref string) string {
		r, ok := c.decode(ref)
		if !ok {
			return ref
		}
		return string(r)
	})
}

// decode resolves one reference to its code point.
func (c *Converter) decode(ref string) (rune, bool) {
	body := ref[1 : len(ref)-1]
	if body[0] == '#' {
		var (
			v   int64
			err error
		)
		if body[1] == 'x' || body[1] == 'X' {
			v, err = strconv.ParseInt(body[2:], 16, 32)
		} else {
			v, err = strconv.ParseInt(body[1:], 10, 32)
		}
		if err != nil || v <= 0 || !utf8.ValidRune(rune(v)) {
			return 0, false
		}
		return rune(v), true
	}

	if r, ok := c.tables.EntityRune(body); ok {
		return r, true
	}
	// Names outside the table but known to the HTML5 set.
	decoded := html.UnescapeString(ref)
	if decoded == ref {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(decoded)
	if size != len(decoded) {
		// multi-rune HTML5 entities have no single canonical form
		return 0, false
	}
	return r, true
}

// canonical renders a decoded code point in unicode mode.
func (c *Converter) canonical(r rune) string {
	if esc, ok := reserved[r]; ok {
		return esc
	}
	if unicode.IsLetter(r) && unicode.In(r, letterRanges...) {
		return string(r)
	}
	if name, ok := c.tables.EntityName(r); ok {
		return "&" + name + ";"
	}
	return string(r)
}

func (c *Converter) toASCII(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	// transformers carry state, so each call gets its own chain
	strip := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	last := 0
	for _, loc := range Reference.FindAllStringIndex(text, -1) {
		c.writeASCII(&b, strip, text[last:loc[0]])
		ref := text[loc[0]:loc[1]]
		last = loc[1]

		r, ok := c.decode(ref)
		if !ok {
			b.WriteString(ref)
			continue
		}
		if esc, ok := reserved[r]; ok {
			b.WriteString(esc)
			continue
		}
		c.writeASCII(&b, strip, string(r))
	}
	c.writeASCII(&b, strip, text[last:])

	return b.String()
}

func (c *Converter) writeASCII(b *strings.Builder, strip transform.Transformer, s string) {
	for _, r := range s {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		if unicode.IsSpace(r) {
			b.WriteByte(' ')
			continue
		}
		if folded, _, err := transform.String(strip, string(r)); err == nil && isASCII(folded) {
			b.WriteString(folded)
			continue
		}
		if unicode.IsLetter(r) {
			if name, ok := c.tables.EntityName(r); ok {
				b.WriteString(name)
			}
		}
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return s != ""
}
