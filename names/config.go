package names

import (
	"log/slog"
)

// CollaborationParams controls how group authors are recognized.
type CollaborationParams struct {
	// Keywords marking a collaboration string, matched case-insensitively.
	Keywords []string `yaml:"keywords" toml:"keywords" json:"keywords"`

	// FirstAuthorDelimiter separates a collaboration label from a first
	// author ("The Collaboration: John Stuart"). Empty disables splitting.
	FirstAuthorDelimiter string `yaml:"first_author_delimiter" toml:"first_author_delimiter" json:"first_author_delimiter"`

	// RemoveLeadingArticle drops a leading "The " from the label.
	RemoveLeadingArticle bool `yaml:"remove_the" toml:"remove_the" json:"remove_the"`

	// FixMixedOrder turns "collaboration, Gaia" into "Gaia collaboration".
	FixMixedOrder bool `yaml:"fix_mixed_order" toml:"fix_mixed_order" json:"fix_mixed_order"`
}

// DefaultCollaborationParams returns the stock collaboration settings.
func DefaultCollaborationParams() CollaborationParams {
	return CollaborationParams{
		Keywords:             []string{"group", "team", "collaboration", "consortium"},
		FirstAuthorDelimiter: ":",
		RemoveLeadingArticle: true,
		FixMixedOrder:        false,
	}
}

// Config is the classifier policy.
type Config struct {
	Collaborations CollaborationParams

	// DefaultToLastName sends middle tokens found in neither name table to
	// the surname instead of keeping them as middle names.
	DefaultToLastName bool

	// ParseTitles strips honorific prefixes (Dr., Prof.) into Prefix. Off by
	// default: the prefix table overlaps with given names.
	ParseTitles bool

	Logger *slog.Logger
}

// DefaultConfig returns the stock classifier policy.
func DefaultConfig() Config {
	return Config{
		Collaborations:    DefaultCollaborationParams(),
		DefaultToLastName: true,
	}
}

// Option adjusts a Config, either at construction or for a single Parse call.
type Option func(*Config)

// WithConfig replaces the whole policy.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		logger := c.Logger
		*c = cfg
		if c.Logger == nil {
			c.Logger = logger
		}
	}
}

// WithDefaultToLastName sets the fallback for unknown middle tokens.
func WithDefaultToLastName(v bool) Option {
	return func(c *Config) { c.DefaultToLastName = v }
}

// WithParseTitles enables honorific prefix detection.
func WithParseTitles(v bool) Option {
	return func(c *Config) { c.ParseTitles = v }
}

// WithCollaborations replaces the collaboration settings.
func WithCollaborations(p CollaborationParams) Option {
	return func(c *Config) { c.Collaborations = p }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
