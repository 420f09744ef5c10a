package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/authorship/lookup"
)

var tables = lookup.MustLoadDefault()

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeUnicode, m)

	m, err = ParseMode(" ASCII ")
	require.NoError(t, err)
	assert.Equal(t, ModeASCII, m)

	_, err = ParseMode("latin1")
	assert.Error(t, err)
}

func TestConvertUnicode(t *testing.T) {
	c := NewConverter(tables, ModeUnicode)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no references here", "no references here"},
		{"latin named", "Schr&ouml;dinger", "Schrödinger"},
		{"latin decimal", "Garc&#237;a", "García"},
		{"latin ext-a hex", "&#x0141;&oacute;d&#x17A;", "Łódź"},
		{"greek", "&alpha;-decay", "α-decay"},
		{"greek numeric", "&#946; Pic", "β Pic"},
		{"math symbol stays named", "x &le; y", "x &le; y"},
		{"math numeric to named", "&#8721;", "&sum;"},
		{"reserved stay escaped", "a &amp; b &lt; c &gt; d", "a &amp; b &lt; c &gt; d"},
		{"numeric ampersand", "R&#38;D", "R&amp;D"},
		{"quote", "&#34;q&#34;", "&quot;q&quot;"},
		{"nbsp stays named", "a&nbsp;b", "a&nbsp;b"},
		{"unknown left", "&bogus; value", "&bogus; value"},
		{"html5 name outside table", "&Amacr;", "Ā"},
		{"unnamed code point", "&#x1F600;", "😀"},
		{"invalid numeric left", "&#0;", "&#0;"},
		{"bare ampersand", "Smith & Sons", "Smith & Sons"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Convert(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, c.Convert(got), "conversion must be idempotent")
		})
	}
}

func TestConvertASCII(t *testing.T) {
	c := NewConverter(tables, ModeASCII)
	assert.Equal(t, ModeASCII, c.Mode())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"accent named", "Schr&ouml;dinger", "Schrodinger"},
		{"accent literal", "García Márquez", "Garcia Marquez"},
		{"greek to name", "&alpha;-decay", "alpha-decay"},
		{"greek literal", "β Pic", "beta Pic"},
		{"sharp s", "Stra&szlig;e", "Strasszlige"},
		{"symbol dropped", "x &le; y", "x  y"},
		{"reserved kept", "R&#38;D &lt;b&gt;", "R&amp;D &lt;b&gt;"},
		{"nbsp to space", "a&nbsp;b", "a b"},
		{"unknown left", "&bogus;", "&bogus;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Convert(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, c.Convert(got), "conversion must be idempotent")
		})
	}
}

func TestUnescape(t *testing.T) {
	c := NewConverter(tables, ModeUnicode)

	assert.Equal(t, "Müller & Co <x>", c.Unescape("M&uuml;ller &amp; Co &lt;x&gt;"))
	assert.Equal(t, "∑ α", c.Unescape("&sum; &#x3B1;"))
	assert.Equal(t, "&bogus;", c.Unescape("&bogus;"))
	assert.Equal(t, "plain", c.Unescape("plain"))
}

type inner struct {
	Text  string
	Items []string
}

type record struct {
	Title    string
	Tags     []string
	Nested   inner
	Ptr      *inner
	ByKey    map[string]string
	ByStruct map[string]inner
	Any      any
	Count    int
	private  string
}

func TestConvertRecord(t *testing.T) {
	c := NewConverter(tables, ModeUnicode)

	r := &record{
		Title:    "&alpha; Cen",
		Tags:     []string{"&eacute;t&eacute;", "&#8721;"},
		Nested:   inner{Text: "&ouml;", Items: []string{"&beta;"}},
		Ptr:      &inner{Text: "&gamma;"},
		ByKey:    map[string]string{"k": "&delta;"},
		ByStruct: map[string]inner{"s": {Text: "&epsilon;"}},
		Any:      "&zeta;",
		Count:    3,
		private:  "&eta;",
	}

	c.ConvertRecord(r)

	assert.Equal(t, "α Cen", r.Title)
	assert.Equal(t, []string{"été", "&sum;"}, r.Tags)
	assert.Equal(t, "ö", r.Nested.Text)
	assert.Equal(t, []string{"β"}, r.Nested.Items)
	assert.Equal(t, "γ", r.Ptr.Text)
	assert.Equal(t, "δ", r.ByKey["k"])
	assert.Equal(t, "ε", r.ByStruct["s"].Text)
	assert.Equal(t, "ζ", r.Any)
	assert.Equal(t, 3, r.Count)
	assert.Equal(t, "&eta;", r.private)

	// non-pointers and nil are ignored
	c.ConvertRecord(*r)
	c.ConvertRecord(nil)
}
