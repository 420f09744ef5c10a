package names

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/lookup"
)

func newTestParser(opts ...Option) *Parser {
	return NewParser(lookup.MustLoadDefault(), opts...)
}

func parseOne(t *testing.T, p *Parser, raw string, opts ...Option) hub.ParsedName {
	t.Helper()
	out := p.Parse(raw, opts...)
	require.Len(t, out, 1)
	name, ok := out[0].(hub.ParsedName)
	require.True(t, ok, "expected a personal name, got %T", out[0])
	return name
}

func TestParsePersonalNames(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		raw  string
		want hub.ParsedName
	}{
		{
			raw:  "Miller, Elizabeth",
			want: hub.ParsedName{Given: "Elizabeth", Surname: "Miller", NameRaw: "Miller, Elizabeth"},
		},
		{
			raw:  "Elizabeth Miller",
			want: hub.ParsedName{Given: "Elizabeth", Surname: "Miller", NameRaw: "Elizabeth Miller"},
		},
		{
			raw:  "Robert White Smith",
			want: hub.ParsedName{Given: "Robert", Surname: "White Smith", NameRaw: "Robert White Smith"},
		},
		{
			raw:  "M. Power",
			want: hub.ParsedName{Given: "M.", Surname: "Power", NameRaw: "M. Power"},
		},
		{
			raw:  "Robert J Smith",
			want: hub.ParsedName{Given: "Robert", Middle: "J", Surname: "Smith", NameRaw: "Robert J Smith"},
		},
		{
			raw:  "maria antonia de la paz",
			want: hub.ParsedName{Given: "maria", Middle: "antonia", Surname: "de la paz", NameRaw: "maria antonia de la paz"},
		},
		{
			raw:  "Ludwig van Beethoven",
			want: hub.ParsedName{Given: "Ludwig", Surname: "van Beethoven", NameRaw: "Ludwig van Beethoven"},
		},
		{
			raw:  "van der Waals",
			want: hub.ParsedName{Surname: "van der Waals", NameRaw: "van der Waals"},
		},
		{
			raw:  "bla. bli.",
			want: hub.ParsedName{Given: "bla.", Surname: "bli.", NameRaw: "bla. bli."},
		},
		{
			raw:  "John",
			want: hub.ParsedName{Given: "John", NameRaw: "John"},
		},
		{
			raw:  "J.R.R. Tolkien",
			want: hub.ParsedName{Given: "J.", Middle: "R. R.", Surname: "Tolkien", NameRaw: "J. R. R. Tolkien"},
		},
		{
			raw:  "John Smith III",
			want: hub.ParsedName{Given: "John", Surname: "Smith", Suffix: "III", NameRaw: "John Smith III"},
		},
		{
			raw:  "John Smith, Jr.",
			want: hub.ParsedName{Given: "John", Surname: "Smith", Suffix: "Jr.", NameRaw: "John Smith, Jr."},
		},
		{
			raw:  "Smith, Jr., John",
			want: hub.ParsedName{Given: "John", Surname: "Smith", Suffix: "Jr.", NameRaw: "Smith, Jr., John"},
		},
		{
			raw:  "Smith, John, et al.",
			want: hub.ParsedName{Given: "John", Surname: "Smith", NameRaw: "Smith, John"},
		},
		{
			raw:  "Jos&eacute; Garc&iacute;a",
			want: hub.ParsedName{Given: "José", Surname: "García", NameRaw: "José García"},
		},
		{
			raw:  "  Miller ,   Elizabeth  ",
			want: hub.ParsedName{Given: "Elizabeth", Surname: "Miller", NameRaw: "Miller, Elizabeth"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOne(t, p, tt.raw))
		})
	}
}

func TestParseBlank(t *testing.T) {
	p := newTestParser()
	assert.Nil(t, p.Parse(""))
	assert.Nil(t, p.Parse("   "))
	assert.Nil(t, p.Parse(", et al."))
}

func TestReclassifyMiddle(t *testing.T) {
	p := newTestParser()

	t.Run("known surname flips following tokens", func(t *testing.T) {
		got := parseOne(t, p, "John Miller Xyzzy Smith")
		assert.Equal(t, "John", got.Given)
		assert.Empty(t, got.Middle)
		assert.Equal(t, "Miller Xyzzy Smith", got.Surname)
	})

	t.Run("given name after surname undoes the flip", func(t *testing.T) {
		got := parseOne(t, p, "John Miller Anna Smith")
		assert.Equal(t, "Miller Anna", got.Middle)
		assert.Equal(t, "Smith", got.Surname)
	})

	t.Run("unknown token defaults to surname", func(t *testing.T) {
		got := parseOne(t, p, "Robert Xyzzy Smith")
		assert.Empty(t, got.Middle)
		assert.Equal(t, "Xyzzy Smith", got.Surname)
	})

	t.Run("unknown token kept as middle when configured", func(t *testing.T) {
		got := parseOne(t, p, "Robert Xyzzy Smith", WithDefaultToLastName(false))
		assert.Equal(t, "Xyzzy", got.Middle)
		assert.Equal(t, "Smith", got.Surname)
	})

	t.Run("apostrophe token is not an initial", func(t *testing.T) {
		got := parseOne(t, p, "Sean O' Brien")
		assert.Equal(t, "O' Brien", got.Surname)
	})
}

func TestVerifySurname(t *testing.T) {
	p := newTestParser()

	got := parseOne(t, p, "Robert Smith, Anna")
	assert.Equal(t, "Anna", got.Given)
	assert.Equal(t, "Robert", got.Middle)
	assert.Equal(t, "Smith", got.Surname)

	got = parseOne(t, p, "White Smith, Anna")
	assert.Empty(t, got.Middle)
	assert.Equal(t, "White Smith", got.Surname)
}

func TestParseTitles(t *testing.T) {
	p := newTestParser()

	got := parseOne(t, p, "Dr. John Smith", WithParseTitles(true))
	assert.Equal(t, hub.ParsedName{Given: "John", Prefix: "Dr.", Surname: "Smith", NameRaw: "Dr. John Smith"}, got)

	got = parseOne(t, p, "Smith, Prof. John", WithParseTitles(true))
	assert.Equal(t, "Prof.", got.Prefix)
	assert.Equal(t, "John", got.Given)

	got = parseOne(t, p, "Dr. John Smith")
	assert.Empty(t, got.Prefix)
	assert.Equal(t, "Dr.", got.Given)
}

func TestParseCollaborations(t *testing.T) {
	p := newTestParser()

	t.Run("label and first author", func(t *testing.T) {
		got := p.Parse("The Collaboration: John Stuart")
		require.Len(t, got, 2)
		assert.Equal(t, hub.Collaboration{Collab: "Collaboration", NameRaw: "The Collaboration"}, got[0])
		assert.Equal(t, hub.ParsedName{Given: "John", Surname: "Stuart", NameRaw: "John Stuart"}, got[1])
	})

	t.Run("keyword is capitalized", func(t *testing.T) {
		got := p.Parse("the planck collaboration")
		require.Len(t, got, 1)
		assert.Equal(t, hub.Collaboration{Collab: "planck Collaboration", NameRaw: "the planck collaboration"}, got[0])
	})

	t.Run("article kept when configured", func(t *testing.T) {
		params := DefaultCollaborationParams()
		params.RemoveLeadingArticle = false
		got := p.Parse("The LIGO Collaboration", WithCollaborations(params))
		require.Len(t, got, 1)
		assert.Equal(t, "The LIGO Collaboration", got[0].(hub.Collaboration).Collab)
	})

	t.Run("mixed order", func(t *testing.T) {
		params := DefaultCollaborationParams()
		params.FixMixedOrder = true
		got := p.Parse("collaboration, Gaia", WithCollaborations(params))
		require.Len(t, got, 1)
		assert.Equal(t, hub.Collaboration{Collab: "Gaia Collaboration", NameRaw: "collaboration, Gaia"}, got[0])
	})

	t.Run("no delimiter", func(t *testing.T) {
		params := DefaultCollaborationParams()
		params.FirstAuthorDelimiter = ""
		got := p.Parse("The Group: John Smith", WithCollaborations(params))
		require.Len(t, got, 1)
		assert.Equal(t, "Group: John Smith", got[0].(hub.Collaboration).Collab)
	})

	t.Run("custom keyword", func(t *testing.T) {
		params := DefaultCollaborationParams()
		params.Keywords = []string{"Survey"}
		got := p.Parse("Sloan Digital Sky survey", WithCollaborations(params))
		require.Len(t, got, 1)
		assert.Equal(t, "Sloan Digital Sky Survey", got[0].(hub.Collaboration).Collab)
	})
}

func TestCollaborationPrecedence(t *testing.T) {
	p := newTestParser()

	// Each of these would also read as a personal name.
	inputs := []string{
		"Smith Group",
		"Miller, Team",
		"John Consortium",
		"Elizabeth COLLABORATION",
	}
	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			got := p.Parse(raw)
			require.NotEmpty(t, got)
			for _, n := range got {
				_, ok := n.(hub.Collaboration)
				assert.True(t, ok, "%q produced %T", raw, n)
			}
		})
	}
}

func TestInvertedRoundTrip(t *testing.T) {
	p := newTestParser()

	inputs := []string{
		"Miller, Elizabeth",
		"Stuart, John",
		"de la Paz, Maria",
		"White Smith, Robert",
		"García, José",
		"Power, M.",
	}
	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			first := parseOne(t, p, raw)
			again := parseOne(t, p, first.Surname+", "+first.Given)
			assert.Equal(t, first.Surname, again.Surname)
			assert.Equal(t, first.Given, again.Given)
		})
	}
}

func TestParseLogsCollaborations(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := newTestParser(WithLogger(logger))

	p.Parse("ATLAS Collaboration")
	assert.Contains(t, buf.String(), "collaboration string")
	assert.Contains(t, buf.String(), "entries=1")
}

func TestParseList(t *testing.T) {
	p := newTestParser()

	got := p.ParseList("Miller, Elizabeth; Stuart, John; The Planck Collaboration")
	require.Len(t, got, 3)
	assert.Equal(t, "Miller", got[0].(hub.ParsedName).Surname)
	assert.Equal(t, "Stuart", got[1].(hub.ParsedName).Surname)
	assert.Equal(t, "Planck Collaboration", got[2].(hub.Collaboration).Collab)

	assert.Empty(t, p.ParseList(""))
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Smith, John; Doe, Jane", []string{"Smith, John", "Doe, Jane"}},
		{"John Smith and Jane Doe", []string{"John Smith", "Jane Doe"}},
		{"Smith, John and Doe, Jane", []string{"Smith, John and Doe, Jane"}},
		{"John Smith | Jane Doe", []string{"John Smith", "Jane Doe"}},
		{"; ;", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitNames(tt.in))
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"J.R.R. Tolkien", "J. R. R. Tolkien"},
		{"Smith, J.,", "Smith, J.,"},
		{"Smith , John", "Smith, John"},
		{"John Smith et al.", "John Smith"},
		{"John Smith, et al", "John Smith"},
		{"Tom and Jerry", "Tom Jerry"},
		{"a\t\tb\nc", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, clean(tt.in))
		})
	}
}
