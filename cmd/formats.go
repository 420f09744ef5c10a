package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/authorship/format"

	// Register all format plugins
	_ "github.com/lehigh-university-libraries/authorship/format/csv"
	_ "github.com/lehigh-university-libraries/authorship/format/dublincore"
	_ "github.com/lehigh-university-libraries/authorship/format/jats"
	_ "github.com/lehigh-university-libraries/authorship/format/jsonout"
	_ "github.com/lehigh-university-libraries/authorship/format/xlsx"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported input and output formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Available formats:")
		for _, name := range format.List() {
			f, _ := format.Get(name)

			var modes []string
			if _, ok := f.(format.Parser); ok {
				modes = append(modes, "parse")
			}
			if _, ok := f.(format.Serializer); ok {
				modes = append(modes, "serialize")
			}
			fmt.Printf("  %-12s %-16s %s (.%s)\n", name, strings.Join(modes, ","),
				f.Description(), strings.Join(f.Extensions(), ", ."))
		}
		return nil
	},
}
