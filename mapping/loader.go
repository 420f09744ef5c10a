package mapping

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var embeddedProfiles embed.FS

// ProfileRegistry holds loaded profiles.
type ProfileRegistry struct {
	profiles map[string]*Profile
}

// NewProfileRegistry creates a new profile registry with embedded profiles loaded.
func NewProfileRegistry() (*ProfileRegistry, error) {
	r := &ProfileRegistry{
		profiles: make(map[string]*Profile),
	}

	entries, err := embeddedProfiles.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("reading embedded profiles: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isProfileFile(entry.Name()) {
			continue
		}

		data, err := embeddedProfiles.ReadFile("profiles/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded profile %s: %w", entry.Name(), err)
		}

		profile, err := parseProfile(data, filepath.Ext(entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("embedded profile %s: %w", entry.Name(), err)
		}

		// Use filename without extension as profile name if not set
		if profile.Name == "" {
			profile.Name = profileName(entry.Name())
		}
		r.profiles[profile.Name] = profile
	}

	return r, nil
}

// LoadProfile loads a YAML or TOML profile from a file path; the extension
// picks the syntax.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}

	profile, err := parseProfile(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if profile.Name == "" {
		profile.Name = profileName(filepath.Base(path))
	}
	return profile, nil
}

// LoadProfileFromString loads a profile from YAML content.
func LoadProfileFromString(content string) (*Profile, error) {
	return parseProfile([]byte(content), ".yaml")
}

func parseProfile(data []byte, ext string) (*Profile, error) {
	var profile Profile
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("parsing profile TOML: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &profile); err != nil {
			return nil, fmt.Errorf("parsing profile YAML: %w", err)
		}
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

func isProfileFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

func profileName(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// Get retrieves a profile by name.
func (r *ProfileRegistry) Get(name string) (*Profile, bool) {
	p, ok := r.profiles[name]
	return p, ok
}

// ForFormat returns the profile named after a format plugin, if any.
func (r *ProfileRegistry) ForFormat(format string) (*Profile, bool) {
	if p, ok := r.profiles[format]; ok {
		return p, true
	}
	for _, name := range r.List() {
		if p := r.profiles[name]; p.Format == format {
			return p, true
		}
	}
	return nil, false
}

// Register adds a profile to the registry.
func (r *ProfileRegistry) Register(profile *Profile) {
	r.profiles[profile.Name] = profile
}

// List returns all registered profile names, sorted.
func (r *ProfileRegistry) List() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFromDirectory loads all profiles from a directory. Invalid files are
// logged and skipped.
func (r *ProfileRegistry) LoadFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading profile directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isProfileFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		profile, err := LoadProfile(path)
		if err != nil {
			slog.Warn("skipping invalid profile", "path", path, "err", err)
			continue
		}
		r.profiles[profile.Name] = profile
	}

	return nil
}

// MergeProfiles merges a custom profile over a base profile.
// Custom fields override base fields.
func MergeProfiles(base, custom *Profile) *Profile {
	merged := &Profile{
		Name:              custom.Name,
		Format:            custom.Format,
		Description:       custom.Description,
		Collaborations:    mergeCollaborations(base.Collaborations, custom.Collaborations),
		DefaultToLastName: base.DefaultToLastName,
		ParseTitles:       base.ParseTitles,
		EntityMode:        base.EntityMode,
		TagSets:           make(map[string][]string),
		Options:           base.Options,
	}

	if merged.Name == "" {
		merged.Name = base.Name
	}
	if merged.Format == "" {
		merged.Format = base.Format
	}
	if merged.Description == "" {
		merged.Description = base.Description
	}
	if custom.DefaultToLastName != nil {
		merged.DefaultToLastName = custom.DefaultToLastName
	}
	if custom.ParseTitles != nil {
		merged.ParseTitles = custom.ParseTitles
	}
	if custom.EntityMode != "" {
		merged.EntityMode = custom.EntityMode
	}

	// Copy base allowlists, then override per field
	for k, v := range base.TagSets {
		merged.TagSets[k] = v
	}
	for k, v := range custom.TagSets {
		merged.TagSets[k] = v
	}

	// Merge options
	if custom.Options.CSVDelimiter != "" {
		merged.Options.CSVDelimiter = custom.Options.CSVDelimiter
	}
	if custom.Options.MultiValueSeparator != "" {
		merged.Options.MultiValueSeparator = custom.Options.MultiValueSeparator
	}
	if custom.Options.IncludeEmpty {
		merged.Options.IncludeEmpty = true
	}

	return merged
}

func mergeCollaborations(base, custom *CollaborationConfig) *CollaborationConfig {
	switch {
	case base == nil:
		return custom
	case custom == nil:
		return base
	}
	merged := *base
	if len(custom.Keywords) > 0 {
		merged.Keywords = custom.Keywords
	}
	if custom.FirstAuthorDelimiter != nil {
		merged.FirstAuthorDelimiter = custom.FirstAuthorDelimiter
	}
	if custom.RemoveLeadingArticle != nil {
		merged.RemoveLeadingArticle = custom.RemoveLeadingArticle
	}
	if custom.FixMixedOrder != nil {
		merged.FixMixedOrder = custom.FixMixedOrder
	}
	return &merged
}
