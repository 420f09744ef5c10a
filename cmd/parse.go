package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/authorship/format"
	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/lookup"
	"github.com/lehigh-university-libraries/authorship/mapping"
)

// Bytes handed to format detection.
const peekSize = 4096

var (
	parseProfile   profileFlags
	parseFrom      string
	parseTo        string
	parseOutput    string
	parseColumns   []string
	parseSeparator string
	parsePretty    bool
	parseJobs      int
	parseFailFast  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file...]",
	Short: "Extract contributors and clean metadata from documents",
	Long: `Parse scholarly metadata documents into records: sanitized titles,
abstracts and keywords, classified author names and contributors with
resolved affiliations, e-mail and ORCID.

Input formats are detected from the file extension and content unless
--from is given. Files are parsed concurrently (--jobs); a file that fails
is reported and skipped unless --fail-fast is set. With no files, stdin is
read.

Examples:
  authorship parse article.xml
  authorship parse --from dublincore --to csv < oai.xml
  authorship parse records/*.xml --to xlsx -o authors.xlsx --jobs 8
  authorship parse article.xml --entity-mode ascii --profile-file local.toml`,
	RunE: runParse,
}

func init() {
	parseProfile.register(parseCmd)
	parseCmd.Flags().StringVar(&parseFrom, "from", "", "Source format (default: detect)")
	parseCmd.Flags().StringVarP(&parseTo, "to", "t", "json", "Output format")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "Output file (default: stdout)")
	parseCmd.Flags().StringSliceVarP(&parseColumns, "columns", "c", nil, "Contributor columns for tabular output")
	parseCmd.Flags().StringVar(&parseSeparator, "separator", "|", "Multi-value cell separator")
	parseCmd.Flags().BoolVar(&parsePretty, "pretty", true, "Indent JSON and XML output")
	parseCmd.Flags().IntVarP(&parseJobs, "jobs", "j", runtime.NumCPU(), "Files parsed concurrently")
	parseCmd.Flags().BoolVar(&parseFailFast, "fail-fast", false, "Stop at the first file that fails")
}

// parseConfig is everything parseFiles needs from the command line.
type parseConfig struct {
	From       string
	Jobs       int
	FailFast   bool
	Tables     *lookup.Tables
	ProfileFor func(formatName string) (*mapping.Profile, error)
	Logger     *slog.Logger
}

// fileResult is the outcome of one input.
type fileResult struct {
	Name    string
	Format  string
	Profile *mapping.Profile
	Records []*hub.Record
	Err     error
}

func runParse(cmd *cobra.Command, args []string) (err error) {
	serializer, err := format.GetSerializer(parseTo)
	if err != nil {
		return fmt.Errorf("unknown target format %q: %w", parseTo, err)
	}

	tables, err := loadTables()
	if err != nil {
		return err
	}

	runID := uuid.New()
	cfg := parseConfig{
		From:     parseFrom,
		Jobs:     parseJobs,
		FailFast: parseFailFast,
		Tables:   tables,
		ProfileFor: func(formatName string) (*mapping.Profile, error) {
			return parseProfile.resolve(cmd, formatName)
		},
		Logger: slog.Default().With("run", runID.String()),
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	results, err := parseFiles(ctx, inputs, cfg)
	if err != nil {
		return err
	}

	var records []*hub.Record
	var profile *mapping.Profile
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		if profile == nil {
			profile = res.Profile
		}
		records = append(records, res.Records...)
	}
	printSummary(os.Stderr, results)

	if failed == len(results) {
		return fmt.Errorf("no input could be parsed")
	}

	output, closeOutput, err := openOutput(parseOutput)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOutput(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	serializeOpts := &format.SerializeOptions{
		Profile:             profile,
		Columns:             parseColumns,
		MultiValueSeparator: parseSeparator,
		IncludeHeader:       true,
		Pretty:              parsePretty,
	}
	if err := serializer.Serialize(output, records, serializeOpts); err != nil {
		return fmt.Errorf("serializing output: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

// parseFiles parses every input with at most cfg.Jobs running at once.
// Results come back in input order. Failures are recorded per file; with
// FailFast the first one cancels the rest and is returned.
func parseFiles(ctx context.Context, inputs []string, cfg parseConfig) ([]fileResult, error) {
	results := make([]fileResult, len(inputs))
	profiles := &profileCache{resolve: cfg.ProfileFor, byFormat: make(map[string]*mapping.Profile)}

	g, ctx := errgroup.WithContext(ctx)
	if cfg.Jobs > 0 {
		g.SetLimit(cfg.Jobs)
	}

	for i, name := range inputs {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = fileResult{Name: displayName(name), Err: err}
				return nil
			}
			results[i] = parseInput(name, cfg, profiles)
			if results[i].Err != nil && cfg.FailFast {
				return fmt.Errorf("%s: %w", results[i].Name, results[i].Err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func parseInput(name string, cfg parseConfig, profiles *profileCache) (res fileResult) {
	res.Name = displayName(name)

	data, err := readInput(name)
	if err != nil {
		res.Err = err
		return res
	}

	formatName := cfg.From
	if formatName == "" {
		peek := data
		if len(peek) > peekSize {
			peek = peek[:peekSize]
		}
		f, err := format.DetectFormat(name, peek)
		if err != nil {
			res.Err = err
			return res
		}
		formatName = f.Name()
	}
	res.Format = formatName

	parser, err := format.GetParser(formatName)
	if err != nil {
		res.Err = fmt.Errorf("unknown source format %q: %w", formatName, err)
		return res
	}

	profile, err := profiles.get(formatName)
	if err != nil {
		res.Err = fmt.Errorf("loading profile: %w", err)
		return res
	}
	res.Profile = profile

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts := &format.ParseOptions{
		Profile:    profile,
		Tables:     cfg.Tables,
		Logger:     logger.With("source", res.Name, "format", formatName),
		SourceName: res.Name,
	}

	records, err := parser.Parse(bytes.NewReader(data), opts)
	if err != nil {
		res.Err = err
		return res
	}
	assignIDs(res.Name, records)
	res.Records = records
	return res
}

// assignIDs gives records without an identifier a name-based UUID, stable
// for the same input across runs.
func assignIDs(source string, records []*hub.Record) {
	for i, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "file://%s#%d", source, i)).String()
		}
	}
}

func readInput(name string) (data []byte, err error) {
	if name == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing input file: %w", cerr)
		}
	}()

	data, err = io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return data, nil
}

func displayName(name string) string {
	if name == "-" {
		return "stdin"
	}
	return name
}

// profileCache resolves each format's profile once per run.
type profileCache struct {
	mu       sync.Mutex
	resolve  func(string) (*mapping.Profile, error)
	byFormat map[string]*mapping.Profile
}

func (c *profileCache) get(formatName string) (*mapping.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.byFormat[formatName]; ok {
		return p, nil
	}
	if c.resolve == nil {
		return nil, nil
	}
	p, err := c.resolve(formatName)
	if err != nil {
		return nil, err
	}
	c.byFormat[formatName] = p
	return p, nil
}

func printSummary(w io.Writer, results []fileResult) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	total, failed := 0, 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			bad.Fprintf(w, "✗ %s: %v\n", res.Name, res.Err)
			continue
		}
		total += len(res.Records)
		ok.Fprintf(w, "✓ %s (%s): %d records\n", res.Name, res.Format, len(res.Records))
	}

	summary := ok
	if failed > 0 {
		summary = color.New(color.FgYellow)
	}
	summary.Fprintf(w, "Parsed %d records from %d inputs (%d failed)\n", total, len(results), failed)
}
