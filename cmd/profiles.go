package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/authorship/mapping"
	"github.com/lehigh-university-libraries/authorship/markup"
)

var profilesDir string

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage source profiles",
	Long:  `List and inspect the source profiles that set name classification, allowed tags and entity mode.`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		profiles := registry.List()
		if len(profiles) == 0 {
			fmt.Println("No profiles found")
			return nil
		}

		fmt.Println("Available profiles:")
		for _, name := range profiles {
			profile, _ := registry.Get(name)
			desc := ""
			if profile.Description != "" {
				desc = " - " + profile.Description
			}
			fmt.Printf("  %s [%s]%s\n", name, profile.Format, desc)
		}

		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show [profile]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := lookupProfile(args[0])
		if err != nil {
			return err
		}

		// Print as YAML
		out, err := yaml.Marshal(profile)
		if err != nil {
			return err
		}

		fmt.Println(string(out))
		return nil
	},
}

var profilesTagsCmd = &cobra.Command{
	Use:   "tags [profile]",
	Short: "List the effective allowed tags per field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := lookupProfile(args[0])
		if err != nil {
			return err
		}

		sets := profile.Allowlists()
		fmt.Printf("Allowed tags in %s profile:\n\n", profile.Name)
		fmt.Printf("%-14s %s\n", "Field", "Tags")
		fmt.Printf("%-14s %s\n", "-----", "----")
		for _, field := range markup.Fields() {
			override := ""
			if _, ok := profile.TagSets[field]; ok {
				override = " (profile)"
			}
			fmt.Printf("%-14s %s%s\n", field, strings.Join(sets.For(field).Tags(), ", "), override)
		}

		return nil
	},
}

func loadRegistry() (*mapping.ProfileRegistry, error) {
	registry, err := mapping.NewProfileRegistry()
	if err != nil {
		return nil, err
	}
	if profilesDir != "" {
		if err := registry.LoadFromDirectory(profilesDir); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func lookupProfile(name string) (*mapping.Profile, error) {
	registry, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	profile, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s", name)
	}
	return profile, nil
}

func init() {
	profilesCmd.PersistentFlags().StringVar(&profilesDir, "profile-dir", "", "Directory of additional profiles")
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesTagsCmd)
}
