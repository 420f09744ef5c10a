package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/mapping"
)

var (
	validateProfile profileFlags
	validateFrom    string
	validateStrict  bool
	validateDetails bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate extracted records without converting",
	Long: `Parse documents and check the resulting records: a title, at least one
named contributor, and single well-formed e-mail and ORCID values.

Missing titles and empty names are warnings unless --strict is set.
With no files, stdin is read.

Examples:
  authorship validate article.xml
  authorship validate --strict --details records/*.xml
  cat oai.xml | authorship validate --from dublincore`,
	RunE: runValidate,
}

func init() {
	validateProfile.register(validateCmd)
	validateCmd.Flags().StringVar(&validateFrom, "from", "", "Source format (default: detect)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Require a title and at least one contributor")
	validateCmd.Flags().BoolVarP(&validateDetails, "details", "d", false, "Show a summary of every record")
}

func runValidate(cmd *cobra.Command, args []string) error {
	tables, err := loadTables()
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := parseFiles(ctx, inputs, parseConfig{
		From:   validateFrom,
		Jobs:   1,
		Tables: tables,
		ProfileFor: func(formatName string) (*mapping.Profile, error) {
			return validateProfile.resolve(cmd, formatName)
		},
		Logger: slog.Default(),
	})
	if err != nil {
		return err
	}

	opts := hub.DefaultValidationOptions()
	if validateStrict {
		opts = hub.StrictValidationOptions()
	}

	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	warn := color.New(color.FgYellow)

	invalid := 0
	for _, res := range results {
		if res.Err != nil {
			invalid++
			bad.Printf("✗ Invalid: %s: %v\n", res.Name, res.Err)
			continue
		}

		problems := 0
		for i, r := range res.Records {
			v := hub.Validate(r, opts)
			for _, e := range v.Errors {
				bad.Printf("  record %d (%s): %s\n", i+1, r.ID, e.Error())
			}
			for _, w := range v.Warnings {
				warn.Printf("  record %d (%s): warning: %s\n", i+1, r.ID, w.Error())
			}
			if !v.IsValid() {
				problems++
			}
		}

		if problems > 0 {
			invalid++
			bad.Printf("✗ Invalid: %d of %d records from %s\n", problems, len(res.Records), res.Name)
		} else {
			ok.Printf("✓ Valid: parsed %d records from %s\n", len(res.Records), res.Name)
		}

		if validateDetails {
			printRecordSummary(res.Records)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d inputs failed validation", invalid, len(results))
	}
	return nil
}

func printRecordSummary(records []*hub.Record) {
	fmt.Println("\nRecord summary:")
	for i, r := range records {
		people := r.People()
		fmt.Printf("\n  Record %d:\n", i+1)
		fmt.Printf("    ID: %s\n", r.ID)
		fmt.Printf("    Title: %s\n", truncate(r.Title, 60))
		fmt.Printf("    Authors: %d\n", len(people.Authors))
		fmt.Printf("    Contributors: %d\n", len(people.Contributors))
		fmt.Printf("    Dates: %d\n", len(r.PubDates))
		fmt.Printf("    Keywords: %d\n", len(r.Keywords))
		fmt.Printf("    Identifiers: %d\n", len(r.Identifiers))
		if d := r.PrimaryDate(); !d.IsZero() {
			fmt.Printf("    Date: %s\n", d.String())
		}
		if r.License.URL != "" {
			fmt.Printf("    License: %s\n", r.License.URL)
		}
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
