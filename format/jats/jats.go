// Package jats provides a source format plugin for JATS / NLM journal
// article XML.
package jats

import (
	"bytes"

	"github.com/lehigh-university-libraries/authorship/format"
)

// Version documents the JATS tag set this implementation targets.
const Version = "1.3"

// Format implements the JATS format.
type Format struct{}

var (
	_ format.Format = (*Format)(nil)
	_ format.Parser = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "jats"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "JATS Journal Article Tag Suite (v" + Version + ")"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xml", "nxml", "jats"}
}

// CanParse returns true if the input looks like a JATS article.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '<' {
		return false
	}
	if !bytes.Contains(peek, []byte("<article")) {
		return false
	}

	jatsPatterns := [][]byte{
		[]byte("JATS"),
		[]byte("-//NLM//DTD"),
		[]byte("jats.nlm.nih.gov"),
		[]byte("<front"),
		[]byte("article-type="),
		[]byte("dtd-version="),
	}

	for _, pattern := range jatsPatterns {
		if bytes.Contains(peek, pattern) {
			return true
		}
	}
	return false
}

func init() {
	format.Register(&Format{})
}
