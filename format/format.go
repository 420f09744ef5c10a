// Package format defines the interface for source and output format plugins.
package format

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/authorship/affil"
	"github.com/lehigh-university-libraries/authorship/entities"
	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/lookup"
	"github.com/lehigh-university-libraries/authorship/mapping"
	"github.com/lehigh-university-libraries/authorship/markup"
	"github.com/lehigh-university-libraries/authorship/names"
)

// Format defines the interface that all format plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "jats", "csv")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if this format can parse the given input
	CanParse(peek []byte) bool
}

// Parser is a format that can extract records from a source document.
type Parser interface {
	Format

	// Parse reads input and returns one record per document found.
	Parse(r io.Reader, opts *ParseOptions) ([]*hub.Record, error)
}

// Serializer is a format that can write records to output.
type Serializer interface {
	Format

	// Serialize writes records to the output.
	Serialize(w io.Writer, records []*hub.Record, opts *SerializeOptions) error
}

// ParseOptions contains options for parsing.
type ParseOptions struct {
	// Profile is the source profile to use; nil means defaults
	Profile *mapping.Profile

	// Tables are the lookup tables; nil loads the embedded set
	Tables *lookup.Tables

	// Logger receives resolver and classifier diagnostics
	Logger *slog.Logger

	// SourceName is an identifier for the source (for error messages)
	SourceName string
}

// SerializeOptions contains options for serialization.
type SerializeOptions struct {
	// Profile is the source profile the records were extracted with
	Profile *mapping.Profile

	// Columns specifies which columns to include (for tabular formats)
	Columns []string

	// MultiValueSeparator is the delimiter for multi-value fields
	MultiValueSeparator string

	// IncludeHeader includes a header row (for tabular formats)
	IncludeHeader bool

	// Pretty enables pretty-printing (for JSON formats)
	Pretty bool
}

// NewParseOptions creates ParseOptions with defaults.
func NewParseOptions() *ParseOptions {
	return &ParseOptions{}
}

// NewSerializeOptions creates SerializeOptions with defaults.
func NewSerializeOptions() *SerializeOptions {
	return &SerializeOptions{
		MultiValueSeparator: "|",
		IncludeHeader:       true,
	}
}

// Separator returns the multi-value separator, preferring the profile's.
func (o *SerializeOptions) Separator() string {
	if o == nil {
		return "|"
	}
	if o.Profile != nil && o.Profile.Options.MultiValueSeparator != "" {
		return o.Profile.Options.MultiValueSeparator
	}
	if o.MultiValueSeparator == "" {
		return "|"
	}
	return o.MultiValueSeparator
}

// Toolkit is the set of core components a source plugin works with, all
// configured from one profile.
type Toolkit struct {
	Tables    *lookup.Tables
	Names     *names.Parser
	Resolver  *affil.Resolver
	Converter *entities.Converter
	TagSets   markup.TagSets
	Logger    *slog.Logger
}

// Toolkit builds the components for these options. A nil receiver uses the
// embedded tables and the default profile.
func (o *ParseOptions) Toolkit() (*Toolkit, error) {
	if o == nil {
		o = NewParseOptions()
	}

	tables := o.Tables
	if tables == nil {
		var err error
		if tables, err = lookup.LoadDefault(); err != nil {
			return nil, fmt.Errorf("loading lookup tables: %w", err)
		}
	}

	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conv, err := o.Profile.Converter(tables)
	if err != nil {
		return nil, err
	}

	parser := names.NewParser(tables, names.WithConfig(o.Profile.NameConfig(logger)))
	tagsets := o.Profile.Allowlists()

	return &Toolkit{
		Tables:    tables,
		Names:     parser,
		Converter: conv,
		TagSets:   tagsets,
		Logger:    logger,
		Resolver: affil.NewResolver(tables,
			affil.WithLogger(logger),
			affil.WithNameParser(parser),
			affil.WithConverter(conv),
			affil.WithTagSets(tagsets),
		),
	}, nil
}

// Detag sanitizes an element with the allowlist of field.
func (t *Toolkit) Detag(el *etree.Element, field string) string {
	if el == nil {
		return ""
	}
	return markup.DetagElement(el, t.TagSets.For(field), markup.WithLogger(t.Logger))
}

// DetagText sanitizes a markup string with the allowlist of field.
func (t *Toolkit) DetagText(s, field string) string {
	return markup.Detag(s, t.TagSets.For(field), markup.WithLogger(t.Logger))
}
