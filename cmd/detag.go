package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/authorship/entities"
	"github.com/lehigh-university-libraries/authorship/markup"
)

var (
	detagField      string
	detagAllow      []string
	detagEntityMode string
)

var detagCmd = &cobra.Command{
	Use:   "detag [fragment...]",
	Short: "Strip a markup fragment down to a field's allowed inline tags",
	Long: `Strip a markup fragment down to the inline tags allowed for a field.
Dangerous tags (script, style, css, php) are deleted with their contents;
any other tag outside the allowlist is unwrapped. Character references are
kept, or normalized when --entity-mode is given.

Fields: ` + strings.Join(markup.Fields(), ", ") + `

Examples:
  authorship detag --field title "H<sub>2</sub>O <b>ice</b>"
  authorship detag --allow sup,sub < abstract.html
  authorship detag --field abstract --entity-mode ascii "<p>&alpha; decay</p>"`,
	RunE: runDetag,
}

func init() {
	detagCmd.Flags().StringVar(&detagField, "field", markup.FieldTitle, "Field whose allowlist applies")
	detagCmd.Flags().StringSliceVar(&detagAllow, "allow", nil, "Explicit allowlist (overrides --field)")
	detagCmd.Flags().StringVar(&detagEntityMode, "entity-mode", "", "Normalize entities afterwards: unicode or ascii")
}

func runDetag(cmd *cobra.Command, args []string) error {
	fragment, err := argsOrStdin(args)
	if err != nil {
		return err
	}

	allowed := markup.NewTagSet(detagAllow...)
	if len(detagAllow) == 0 {
		allowed, err = markup.DefaultTagSet(detagField)
		if err != nil {
			return err
		}
	}

	out := markup.Detag(fragment, allowed)

	if detagEntityMode != "" {
		mode, err := entities.ParseMode(detagEntityMode)
		if err != nil {
			return err
		}
		tables, err := loadTables()
		if err != nil {
			return err
		}
		out = entities.NewConverter(tables, mode).Convert(out)
	}

	fmt.Println(out)
	return nil
}

// argsOrStdin joins args with spaces, or returns all of stdin when there are
// no args.
func argsOrStdin(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
