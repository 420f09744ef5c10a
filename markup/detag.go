// Package markup reduces bibliographic markup fragments to a per-field
// allowlist of inline tags.
package markup

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/beevik/etree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lehigh-university-libraries/authorship/entities"
)

// Tags deleted together with their contents whatever the allowlist says.
var dangerTags = NewTagSet("script", "style", "css", "php")

var (
	doubleEscaped = regexp.MustCompile(`&amp;(#?[A-Za-z0-9]+);`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// The HTML parser reads the contents of these elements as plain text. JATS
// uses some of the names (title) for ordinary markup, so they are renamed
// before parsing and restored afterwards.
var (
	rawTextTags   = regexp.MustCompile(`(?i)<(/?)(title|textarea|noscript|noframes|noembed|xmp|iframe|plaintext)([\s/>])`)
	rawTextPrefix = "detag-raw-"
)

// Option configures Detag and DetagElement.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for parse and serialization problems.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// Detag strips fragment down to the tags in allowed. Dangerous tags are
// deleted with their contents, every other tag is unwrapped. Character
// references survive untouched and the result is whitespace-collapsed.
//
// Detag is idempotent for a fixed allowlist.
func Detag(fragment string, allowed TagSet, opts ...Option) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	o := newOptions(opts)

	// Escape every ampersand so the parser hands references back verbatim;
	// the repair pass in finish restores them after rendering.
	protected := strings.ReplaceAll(fragment, "&", "&amp;")
	protected = rawTextTags.ReplaceAllString(protected, "<${1}"+rawTextPrefix+"${2}${3}")

	nodes, err := html.ParseFragment(strings.NewReader(protected), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		o.logger.Warn("unable to parse markup fragment", "err", err)
		return finish(fragment)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		name := goquery.NodeName(s)
		renamed := false
		if orig, ok := strings.CutPrefix(name, rawTextPrefix); ok {
			name, renamed = orig, true
		}
		switch {
		case dangerTags.Has(name):
			o.logger.Debug("removing dangerous tag", "tag", name)
			s.Remove()
		case allowed.Has(name):
			if renamed {
				s.Get(0).Data = name
			}
		default:
			if name == "sc" {
				upperText(s.Get(0))
			}
			s.ReplaceWithSelection(s.Contents())
		}
	})

	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		render(&b, c)
	}
	return finish(b.String())
}

// DetagElement serializes el, including its own tag, and runs Detag over
// the result. el is not modified.
func DetagElement(el *etree.Element, allowed TagSet, opts ...Option) string {
	if el == nil {
		return ""
	}
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		newOptions(opts).logger.Warn("unable to serialize element", "tag", el.FullTag(), "err", err)
		return ""
	}
	return Detag(s, allowed, opts...)
}

func finish(s string) string {
	for {
		repaired := doubleEscaped.ReplaceAllString(s, "&$1;")
		if repaired == s {
			break
		}
		s = repaired
	}
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// upperText upper-cases every text node below n, leaving character
// references as they are.
func upperText(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			c.Data = upperOutsideReferences(c.Data)
		case html.ElementNode:
			upperText(c)
		}
	}
}

func upperOutsideReferences(s string) string {
	var b strings.Builder
	last := 0
	for _, loc := range entities.Reference.FindAllStringIndex(s, -1) {
		b.WriteString(strings.ToUpper(s[last:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(strings.ToUpper(s[last:]))
	return b.String()
}
