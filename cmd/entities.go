package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/authorship/entities"
)

var (
	entitiesMode     string
	entitiesUnescape bool
)

var entitiesCmd = &cobra.Command{
	Use:   "entities [text...]",
	Short: "Normalize character entity references",
	Long: `Normalize the named, decimal and hex character references in text.

In unicode mode letters of the Latin and Greek blocks are written out as
characters and everything else becomes its named reference. In ascii mode
the text is transliterated to plain ASCII. &amp;, &lt; and &gt; always stay
escaped unless --unescape is given.

Examples:
  authorship entities "Garc&iacute;a &#x3B1;-decay"
  authorship entities --mode ascii "Garc&iacute;a Müller"
  authorship entities --unescape "R&amp;D"`,
	RunE: runEntities,
}

func init() {
	entitiesCmd.Flags().StringVarP(&entitiesMode, "mode", "m", string(entities.ModeUnicode), "Target representation: unicode or ascii")
	entitiesCmd.Flags().BoolVar(&entitiesUnescape, "unescape", false, "Decode every known reference to its character")
}

func runEntities(cmd *cobra.Command, args []string) error {
	text, err := argsOrStdin(args)
	if err != nil {
		return err
	}

	mode, err := entities.ParseMode(entitiesMode)
	if err != nil {
		return err
	}
	tables, err := loadTables()
	if err != nil {
		return err
	}

	conv := entities.NewConverter(tables, mode)
	if entitiesUnescape {
		fmt.Println(conv.Unescape(text))
		return nil
	}
	fmt.Println(conv.Convert(text))
	return nil
}
