package main

import (
	"github.com/lehigh-university-libraries/authorship/cmd"

	// Register format plugins
	_ "github.com/lehigh-university-libraries/authorship/format/csv"
	_ "github.com/lehigh-university-libraries/authorship/format/dublincore"
	_ "github.com/lehigh-university-libraries/authorship/format/jats"
	_ "github.com/lehigh-university-libraries/authorship/format/jsonout"
	_ "github.com/lehigh-university-libraries/authorship/format/xlsx"
)

func main() {
	cmd.Execute()
}
