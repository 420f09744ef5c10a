package lookup

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// File names expected in a table directory.
const (
	FirstNamesFile = "first.dat"
	LastNamesFile  = "last.dat"
	PrefixesFile   = "prefixes.dat"
	SuffixesFile   = "suffixes.dat"
	MonthsFile     = "months.dat"
	EntitiesFile   = "entities.tsv"
)

// ErrMalformed is wrapped by every error caused by bad table content.
var ErrMalformed = errors.New("malformed lookup table")

//go:embed data/*.dat data/*.tsv
var embeddedTables embed.FS

// LoadDefault loads the tables shipped with the binary.
func LoadDefault() (*Tables, error) {
	sub, err := fs.Sub(embeddedTables, "data")
	if err != nil {
		return nil, fmt.Errorf("opening embedded tables: %w", err)
	}
	return Load(sub)
}

// LoadDir loads the tables from a directory on disk.
func LoadDir(dir string) (*Tables, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("reading table directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reading table directory: %s is not a directory", dir)
	}
	return Load(os.DirFS(dir))
}

// MustLoadDefault is LoadDefault for tests and package-level initialisation.
func MustLoadDefault() *Tables {
	t, err := LoadDefault()
	if err != nil {
		panic(err)
	}
	return t
}

// Load reads every table file from the root of fsys. Any missing or
// malformed file is an error: nothing downstream can run without them.
func Load(fsys fs.FS) (*Tables, error) {
	t := &Tables{}
	var err error

	if t.firstNames, err = readSet(fsys, FirstNamesFile, strings.ToUpper); err != nil {
		return nil, err
	}
	if t.lastNames, err = readSet(fsys, LastNamesFile, strings.ToUpper); err != nil {
		return nil, err
	}
	if t.prefixes, err = readSet(fsys, PrefixesFile, foldAffix); err != nil {
		return nil, err
	}
	if t.suffixes, err = readSet(fsys, SuffixesFile, foldAffix); err != nil {
		return nil, err
	}
	if t.months, err = readMonths(fsys); err != nil {
		return nil, err
	}
	if t.entityByName, t.nameByRune, err = readEntities(fsys); err != nil {
		return nil, err
	}

	return t, nil
}

// readLines returns the non-blank, non-comment lines of a table file.
func readLines(fsys fs.FS, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return lines, nil
}

func readSet(fsys fs.FS, name string, fold func(string) string) (map[string]struct{}, error) {
	lines, err := readLines(fsys, name)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		set[fold(strings.TrimSpace(line))] = struct{}{}
	}
	return set, nil
}

func readMonths(fsys fs.FS) (map[string]int, error) {
	lines, err := readLines(fsys, MonthsFile)
	if err != nil {
		return nil, err
	}
	if len(lines) != 12 {
		return nil, fmt.Errorf("%w: %s has %d entries, want 12", ErrMalformed, MonthsFile, len(lines))
	}
	months := make(map[string]int, 24)
	for i, line := range lines {
		full := strings.ToLower(strings.TrimSpace(line))
		if len(full) < 3 {
			return nil, fmt.Errorf("%w: %s line %q too short", ErrMalformed, MonthsFile, line)
		}
		months[full] = i + 1
		months[full[:3]] = i + 1
	}
	return months, nil
}

// readEntities parses the four-column entity table:
//
//	U+03B1	&alpha;	&#x03B1;	&#945;
//
// The hex and decimal columns must agree with the code point.
func readEntities(fsys fs.FS) (map[string]rune, map[rune]string, error) {
	lines, err := readLines(fsys, EntitiesFile)
	if err != nil {
		return nil, nil, err
	}

	byName := make(map[string]rune, len(lines))
	byRune := make(map[rune]string, len(lines))
	for n, line := range lines {
		cols := strings.Split(line, "\t")
		if len(cols) != 4 {
			return nil, nil, fmt.Errorf("%w: %s row %d has %d columns, want 4", ErrMalformed, EntitiesFile, n+1, len(cols))
		}
		e, err := parseEntityRow(cols)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s row %d: %v", ErrMalformed, EntitiesFile, n+1, err)
		}
		byName[e.Name] = e.CodePoint
		// First name listed for a code point is the canonical one.
		if _, ok := byRune[e.CodePoint]; !ok {
			byRune[e.CodePoint] = e.Name
		}
	}
	return byName, byRune, nil
}

func parseEntityRow(cols []string) (Entity, error) {
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}

	cp, err := parseCodePoint(cols[0])
	if err != nil {
		return Entity{}, err
	}

	name := cols[1]
	if !strings.HasPrefix(name, "&") || !strings.HasSuffix(name, ";") || len(name) < 3 {
		return Entity{}, fmt.Errorf("bad named reference %q", name)
	}
	name = name[1 : len(name)-1]

	hex := strings.TrimSuffix(strings.TrimPrefix(strings.ToLower(cols[2]), "&#x"), ";")
	hv, err := strconv.ParseInt(hex, 16, 32)
	if err != nil || rune(hv) != cp {
		return Entity{}, fmt.Errorf("hex reference %q does not match %s", cols[2], cols[0])
	}

	dec := strings.TrimSuffix(strings.TrimPrefix(cols[3], "&#"), ";")
	dv, err := strconv.ParseInt(dec, 10, 32)
	if err != nil || rune(dv) != cp {
		return Entity{}, fmt.Errorf("decimal reference %q does not match %s", cols[3], cols[0])
	}

	return Entity{CodePoint: cp, Name: name}, nil
}

func parseCodePoint(s string) (rune, error) {
	s = strings.TrimPrefix(strings.ToUpper(s), "U+")
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad code point %q", s)
	}
	return rune(v), nil
}
