package affil

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

var spaceComma = regexp.MustCompile(`\s+,`)

// findAll returns the elements below root whose local name is tag, in
// document order. Elements named in fence are never entered; a fence
// element that matches tag is still returned.
func findAll(root *etree.Element, tag string, fence ...string) []*etree.Element {
	if root == nil {
		return nil
	}
	var out []*etree.Element
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			if c.Tag == tag {
				out = append(out, c)
			}
			if !fenced(c.Tag, fence) {
				walk(c)
			}
		}
	}
	walk(root)
	return out
}

func fenced(tag string, fence []string) bool {
	for _, f := range fence {
		if tag == f {
			return true
		}
	}
	return false
}

// textOf collects the character data below el, skipping the subtrees of
// elements named in skip, and returns it whitespace-collapsed. Text nodes
// are joined with a space so "<a>x</a><b>y</b>" reads "x y".
func textOf(el *etree.Element, skip ...string) string {
	if el == nil {
		return ""
	}
	var parts []string
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, t := range e.Child {
			switch v := t.(type) {
			case *etree.CharData:
				parts = append(parts, v.Data)
			case *etree.Element:
				if !fenced(v.Tag, skip) {
					walk(v)
				}
			}
		}
	}
	walk(el)
	s := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	return spaceComma.ReplaceAllString(s, ",")
}

// attr returns the trimmed value of the first attribute present among keys.
func attr(el *etree.Element, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(el.SelectAttrValue(k, "")); v != "" {
			return v
		}
	}
	return ""
}

// prune returns a copy of el with every descendant matching drop removed.
// Adjacent elements are separated by a space so their text does not run
// together once the tags are gone.
func prune(el *etree.Element, drop func(*etree.Element) bool) *etree.Element {
	cp := el.Copy()
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			if drop(c) {
				e.RemoveChild(c)
				continue
			}
			walk(c)
		}
		for i := len(e.Child) - 1; i >= 0; i-- {
			if _, ok := e.Child[i].(*etree.Element); ok {
				e.InsertChildAt(i+1, etree.NewText(" "))
			}
		}
	}
	walk(cp)
	return cp
}
