package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidORCID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"0000-0002-1825-0097", true},
		{"0000-0001-5109-3700", true},
		{"0000-0002-1694-233X", true},
		{"0000-0002-1825-0098", false},
		{"0000-0002-1694-2330", false},
		{"0000-0002-1825-009", false},
		{"https://orcid.org/0000-0002-1825-0097", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidORCID(tt.id))
		})
	}
}

func TestNormalizeORCID(t *testing.T) {
	tests := []struct{ in, want string }{
		{"https://orcid.org/0000-0002-1825-0097", "0000-0002-1825-0097"},
		{"http://orcid.org/0000-0002-1825-0097/", "0000-0002-1825-0097"},
		{"orcid.org/0000-0002-1694-233x", "0000-0002-1694-233X"},
		{" 0000-0001-5109-3700 ", "0000-0001-5109-3700"},
		{"https://orcid.org/ORCID/0000-0001-5109-3700", "0000-0001-5109-3700"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeORCID(tt.in), tt.in)
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "j@x.org", NormalizeEmail(" mailto:j@x.org "))
	assert.Equal(t, "j@x.org", NormalizeEmail("MAILTO:j@x.org"))

	assert.True(t, ValidEmail("first.last+tag@dept.example.ac.uk"))
	assert.False(t, ValidEmail("no-at-sign.org"))
	assert.False(t, ValidEmail("a@b"))
	assert.False(t, ValidEmail("a@b.org, c@d.org"))
	assert.False(t, ValidEmail("&lt;a@b.org&gt;"))
}

func TestDetectIdentifierType(t *testing.T) {
	tests := []struct {
		value string
		want  IdentifierType
	}{
		{"10.1088/0004-637X/700/1/1", IdentifierDOI},
		{"https://doi.org/10.1000/xyz", IdentifierDOI},
		{"doi:10.1000/xyz", IdentifierDOI},
		{"0000-0002-1825-0097", IdentifierORCID},
		{"https://orcid.org/0000-0002-1825-0097", IdentifierORCID},
		{"arXiv:2101.00001", IdentifierArXiv},
		{"https://hdl.handle.net/1721.1/12345", IdentifierHandle},
		{"0004-637X", IdentifierISSN},
		{"someone@example.org", IdentifierEmail},
		{"https://example.org/record/1", IdentifierURL},
		{"urn:local:1", IdentifierUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIdentifierType(tt.value))
		})
	}
}

func TestNewIdentifier(t *testing.T) {
	assert.Equal(t, Identifier{Type: IdentifierDOI, Value: "10.1000/xyz"},
		NewIdentifier("https://doi.org/10.1000/xyz", IdentifierUnknown))
	assert.Equal(t, Identifier{Type: IdentifierArXiv, Value: "2101.00001"},
		NewIdentifier("https://arxiv.org/abs/2101.00001", IdentifierUnknown))
	assert.Equal(t, "https://orcid.org/0000-0002-1825-0097",
		IdentifierURI(NewIdentifier("0000-0002-1825-0097", IdentifierORCID)))
}
