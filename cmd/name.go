package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/authorship/format/jsonout"
	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/names"
)

var (
	nameProfile profileFlags
	nameList    bool
	nameOutput  string
)

var nameCmd = &cobra.Command{
	Use:   "name [author string...]",
	Short: "Classify author strings into personal names and collaborations",
	Long: `Classify raw author strings. Each argument (or each stdin line when no
arguments are given) yields one or more names: a personal name split into
given, middle, surname, prefix and suffix, or a collaboration label.

Examples:
  authorship name "Ludwig van Beethoven"
  authorship name "The Planck Collaboration: White, Martin"
  authorship name --list "Smith, J.; Doe, Jane and Miller, E."
  authorship name -f text --parse-titles "Dr. John Smith Jr."
  cat authors.txt | authorship name --profile dublincore`,
	RunE: runName,
}

func init() {
	nameProfile.register(nameCmd)
	nameCmd.Flags().BoolVarP(&nameList, "list", "l", false, "Treat each input as a list of several authors")
	nameCmd.Flags().StringVarP(&nameOutput, "format", "f", "json", "Output format: json or text")
}

func runName(cmd *cobra.Command, args []string) error {
	inputs, err := readArgsOrStdin(args)
	if err != nil {
		return err
	}

	profile, err := nameProfile.resolve(cmd, "")
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	tables, err := loadTables()
	if err != nil {
		return err
	}
	conv, err := profile.Converter(tables)
	if err != nil {
		return err
	}
	parser := names.NewParser(tables, names.WithConfig(profile.NameConfig(slog.Default())))

	results := make([][]hub.Name, 0, len(inputs))
	for _, in := range inputs {
		var parsed []hub.Name
		if nameList {
			parsed = parser.ParseList(in)
		} else {
			parsed = parser.Parse(in)
		}
		conv.ConvertRecord(&parsed)
		results = append(results, parsed)
	}

	switch nameOutput {
	case "json":
		return writeNamesJSON(os.Stdout, inputs, results)
	case "text":
		writeNamesText(os.Stdout, inputs, results)
		return nil
	}
	return fmt.Errorf("unknown output format %q (want json or text)", nameOutput)
}

func writeNamesJSON(w io.Writer, inputs []string, results [][]hub.Name) error {
	var items []any
	for i, in := range inputs {
		items = append(items, map[string]any{
			"input": in,
			"names": jsonout.NameList(results[i]),
		})
	}
	list, err := structpb.NewList(items)
	if err != nil {
		return fmt.Errorf("building output: %w", err)
	}
	return jsonout.Write(w, list, true)
}

func writeNamesText(w io.Writer, inputs []string, results [][]hub.Name) {
	for i, in := range inputs {
		if len(results[i]) == 0 {
			fmt.Fprintf(w, "%s\t(empty)\n", in)
			continue
		}
		for _, n := range results[i] {
			switch v := n.(type) {
			case hub.Collaboration:
				fmt.Fprintf(w, "%s\tcollab\t%s\n", in, v.Collab)
			case hub.ParsedName:
				fmt.Fprintf(w, "%s\tperson\t%s\t[%s]\n", in, hub.ParsedNameInverted(v),
					strings.Join([]string{v.Prefix, v.Given, v.Middle, v.Surname, v.Suffix}, "|"))
			}
		}
	}
}

// splitLines returns the non-blank lines of s.
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
