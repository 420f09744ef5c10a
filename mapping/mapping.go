// Package mapping provides per-source profiles: how author strings are
// classified, which inline tags each field keeps, and how entities are
// rendered for records coming from a given publisher format.
package mapping

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/authorship/entities"
	"github.com/lehigh-university-libraries/authorship/lookup"
	"github.com/lehigh-university-libraries/authorship/markup"
	"github.com/lehigh-university-libraries/authorship/names"
)

// Profile represents the extraction settings for one source.
type Profile struct {
	// Name is the profile identifier
	Name string `yaml:"name" toml:"name" json:"name"`

	// Format is the source format plugin (e.g., "jats", "dublincore")
	Format string `yaml:"format" toml:"format" json:"format"`

	// Description provides human-readable documentation
	Description string `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`

	// Collaborations overrides individual collaboration settings; keys left
	// out keep their default.
	Collaborations *CollaborationConfig `yaml:"collaborations,omitempty" toml:"collaborations,omitempty" json:"collaborations,omitempty"`

	// DefaultToLastName sends unknown middle tokens to the surname.
	DefaultToLastName *bool `yaml:"default_to_last_name,omitempty" toml:"default_to_last_name,omitempty" json:"default_to_last_name,omitempty"`

	// ParseTitles enables honorific prefix detection.
	ParseTitles *bool `yaml:"parse_titles,omitempty" toml:"parse_titles,omitempty" json:"parse_titles,omitempty"`

	// EntityMode is "unicode" (default) or "ascii".
	EntityMode string `yaml:"entity_mode,omitempty" toml:"entity_mode,omitempty" json:"entity_mode,omitempty"`

	// TagSets replaces the allowlist of the named fields.
	TagSets map[string][]string `yaml:"tagsets,omitempty" toml:"tagsets,omitempty" json:"tagsets,omitempty"`

	// Options contains serializer options
	Options ProfileOptions `yaml:"options,omitempty" toml:"options,omitempty" json:"options,omitempty"`
}

// CollaborationConfig mirrors names.CollaborationParams with every field
// optional.
type CollaborationConfig struct {
	Keywords             []string `yaml:"keywords,omitempty" toml:"keywords,omitempty" json:"keywords,omitempty"`
	FirstAuthorDelimiter *string  `yaml:"first_author_delimiter,omitempty" toml:"first_author_delimiter,omitempty" json:"first_author_delimiter,omitempty"`
	RemoveLeadingArticle *bool    `yaml:"remove_the,omitempty" toml:"remove_the,omitempty" json:"remove_the,omitempty"`
	FixMixedOrder        *bool    `yaml:"fix_mixed_order,omitempty" toml:"fix_mixed_order,omitempty" json:"fix_mixed_order,omitempty"`
}

// ProfileOptions contains output options.
type ProfileOptions struct {
	// CSVDelimiter is the delimiter for CSV files (default: comma)
	CSVDelimiter string `yaml:"csv_delimiter,omitempty" toml:"csv_delimiter,omitempty" json:"csv_delimiter,omitempty"`

	// MultiValueSeparator joins multi-valued cells (default: pipe)
	MultiValueSeparator string `yaml:"multi_value_separator,omitempty" toml:"multi_value_separator,omitempty" json:"multi_value_separator,omitempty"`

	// IncludeEmpty includes empty fields in output
	IncludeEmpty bool `yaml:"include_empty,omitempty" toml:"include_empty,omitempty" json:"include_empty,omitempty"`
}

// Params overlays c on the default collaboration settings. A nil c yields
// the defaults.
func (c *CollaborationConfig) Params() names.CollaborationParams {
	p := names.DefaultCollaborationParams()
	if c == nil {
		return p
	}
	if len(c.Keywords) > 0 {
		p.Keywords = append([]string(nil), c.Keywords...)
	}
	if c.FirstAuthorDelimiter != nil {
		p.FirstAuthorDelimiter = *c.FirstAuthorDelimiter
	}
	if c.RemoveLeadingArticle != nil {
		p.RemoveLeadingArticle = *c.RemoveLeadingArticle
	}
	if c.FixMixedOrder != nil {
		p.FixMixedOrder = *c.FixMixedOrder
	}
	return p
}

// NameConfig returns the classifier policy of the profile. A nil profile
// yields the defaults.
func (p *Profile) NameConfig(logger *slog.Logger) names.Config {
	cfg := names.DefaultConfig()
	cfg.Logger = logger
	if p == nil {
		return cfg
	}
	cfg.Collaborations = p.Collaborations.Params()
	if p.DefaultToLastName != nil {
		cfg.DefaultToLastName = *p.DefaultToLastName
	}
	if p.ParseTitles != nil {
		cfg.ParseTitles = *p.ParseTitles
	}
	return cfg
}

// Mode returns the entity mode of the profile.
func (p *Profile) Mode() (entities.Mode, error) {
	if p == nil {
		return entities.ModeUnicode, nil
	}
	return entities.ParseMode(p.EntityMode)
}

// Converter returns an entity normalizer in the profile's mode.
func (p *Profile) Converter(tables *lookup.Tables) (*entities.Converter, error) {
	mode, err := p.Mode()
	if err != nil {
		return nil, err
	}
	return entities.NewConverter(tables, mode), nil
}

// Allowlists returns the built-in allowlists with the profile's overrides
// applied.
func (p *Profile) Allowlists() markup.TagSets {
	sets := markup.DefaultTagSets()
	if p == nil || len(p.TagSets) == 0 {
		return sets
	}
	return sets.Override(p.TagSets)
}

// Validate checks the entity mode and that every overridden allowlist
// names a known field.
func (p *Profile) Validate() error {
	if _, err := p.Mode(); err != nil {
		return fmt.Errorf("profile %q: %w", p.Name, err)
	}
	for field := range p.TagSets {
		if _, err := markup.DefaultTagSet(field); err != nil {
			return fmt.Errorf("profile %q: tagsets: %w", p.Name, err)
		}
	}
	if c := p.Collaborations; c != nil {
		for _, kw := range c.Keywords {
			if kw == "" {
				return fmt.Errorf("profile %q: empty collaboration keyword", p.Name)
			}
		}
	}
	return nil
}

// Bool returns a pointer to v, for building profiles in code.
func Bool(v bool) *bool {
	return &v
}

// String returns a pointer to v, for building profiles in code.
func String(v string) *string {
	return &v
}
