package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/authorship/entities"
	"github.com/lehigh-university-libraries/authorship/lookup"
	"github.com/lehigh-university-libraries/authorship/mapping"
)

// profileFlags are the profile selection flags shared by the commands that
// classify names or parse documents.
type profileFlags struct {
	name              string
	file              string
	dir               string
	entityMode        string
	defaultToLastName bool
	parseTitles       bool
}

func (pf *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&pf.name, "profile", "p", "", "Profile name (default: the profile of the source format)")
	cmd.Flags().StringVar(&pf.file, "profile-file", "", "Custom profile YAML or TOML file")
	cmd.Flags().StringVar(&pf.dir, "profile-dir", "", "Directory of additional profiles")
	cmd.Flags().StringVar(&pf.entityMode, "entity-mode", "", "Entity mode: unicode or ascii (overrides the profile)")
	cmd.Flags().BoolVar(&pf.defaultToLastName, "default-to-last-name", true, "Send unknown middle tokens to the surname (overrides the profile)")
	cmd.Flags().BoolVar(&pf.parseTitles, "parse-titles", false, "Detect honorific prefixes (overrides the profile)")
}

// resolve picks the profile for a source format: --profile-file, then
// --profile, then the profile named after the format. Flags the user set
// explicitly are layered on top.
func (pf *profileFlags) resolve(cmd *cobra.Command, formatName string) (*mapping.Profile, error) {
	var profile *mapping.Profile

	if pf.file != "" {
		p, err := mapping.LoadProfile(pf.file)
		if err != nil {
			return nil, err
		}
		profile = p
	} else {
		registry, err := mapping.NewProfileRegistry()
		if err != nil {
			return nil, err
		}
		if pf.dir != "" {
			if err := registry.LoadFromDirectory(pf.dir); err != nil {
				return nil, err
			}
		}

		switch {
		case pf.name != "":
			p, ok := registry.Get(pf.name)
			if !ok {
				return nil, fmt.Errorf("unknown profile: %s", pf.name)
			}
			profile = p
		case formatName != "":
			profile, _ = registry.ForFormat(formatName)
		}
	}

	overrides := &mapping.Profile{}
	changed := false
	if cmd.Flags().Changed("entity-mode") {
		if _, err := entities.ParseMode(pf.entityMode); err != nil {
			return nil, err
		}
		overrides.EntityMode = pf.entityMode
		changed = true
	}
	if cmd.Flags().Changed("default-to-last-name") {
		overrides.DefaultToLastName = mapping.Bool(pf.defaultToLastName)
		changed = true
	}
	if cmd.Flags().Changed("parse-titles") {
		overrides.ParseTitles = mapping.Bool(pf.parseTitles)
		changed = true
	}
	if !changed {
		return profile, nil
	}

	if profile == nil {
		profile = &mapping.Profile{Name: "flags", Format: formatName}
	}
	return mapping.MergeProfiles(profile, overrides), nil
}

// loadTables returns the embedded lookup tables, or the ones in --tables-dir.
func loadTables() (*lookup.Tables, error) {
	if tablesDir != "" {
		t, err := lookup.LoadDir(tablesDir)
		if err != nil {
			return nil, fmt.Errorf("loading tables from %s: %w", tablesDir, err)
		}
		return t, nil
	}
	return lookup.LoadDefault()
}

// openOutput returns the writer for path, stdout when path is empty, and a
// close function that reports the first close error.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() error {
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing output file: %w", err)
		}
		return nil
	}, nil
}

// readArgsOrStdin returns args, or the lines of stdin when there are none.
func readArgsOrStdin(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return splitLines(string(data)), nil
}
