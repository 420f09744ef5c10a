package hub

import (
	"regexp"
	"strings"
)

// IdentifierType names the kind of a document or person identifier.
type IdentifierType string

const (
	IdentifierDOI     IdentifierType = "doi"
	IdentifierHandle  IdentifierType = "handle"
	IdentifierORCID   IdentifierType = "orcid"
	IdentifierArXiv   IdentifierType = "arxiv"
	IdentifierISSN    IdentifierType = "issn"
	IdentifierEmail   IdentifierType = "email"
	IdentifierURL     IdentifierType = "url"
	IdentifierUnknown IdentifierType = ""
)

// Identifier is a typed identifier attached to a record.
type Identifier struct {
	Type  IdentifierType `json:"type"`
	Value string         `json:"value"`
}

var (
	doiRegex    = regexp.MustCompile(`^10\.\d{4,}/[^\s]+$`)
	handleRegex = regexp.MustCompile(`^\d+\.\d+/[^\s]+$`)
	orcidRegex  = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)
	issnRegex   = regexp.MustCompile(`^\d{4}-\d{3}[\dX]$`)
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9+_.-]+@[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)+$`)
)

// IdentifierURI returns the identifier as a resolvable URI where possible.
func IdentifierURI(id Identifier) string {
	switch id.Type {
	case IdentifierDOI:
		return "https://doi.org/" + id.Value
	case IdentifierHandle:
		return "https://hdl.handle.net/" + id.Value
	case IdentifierORCID:
		return "https://orcid.org/" + id.Value
	case IdentifierArXiv:
		return "https://arxiv.org/abs/" + id.Value
	case IdentifierEmail:
		return "mailto:" + id.Value
	default:
		return id.Value
	}
}

// DetectIdentifierType attempts to determine the identifier type from its value.
func DetectIdentifierType(value string) IdentifierType {
	value = strings.TrimSpace(value)
	lower := strings.ToLower(value)

	switch {
	case doiRegex.MatchString(value),
		strings.HasPrefix(lower, "https://doi.org/"),
		strings.HasPrefix(lower, "http://doi.org/"),
		strings.HasPrefix(lower, "https://dx.doi.org/"),
		strings.HasPrefix(lower, "doi:"):
		return IdentifierDOI
	case orcidRegex.MatchString(value), strings.Contains(lower, "orcid.org/"):
		return IdentifierORCID
	case strings.HasPrefix(lower, "arxiv:"), strings.Contains(lower, "arxiv.org/"):
		return IdentifierArXiv
	case handleRegex.MatchString(value), strings.Contains(lower, "hdl.handle.net/"):
		return IdentifierHandle
	case issnRegex.MatchString(value):
		return IdentifierISSN
	case strings.HasPrefix(lower, "mailto:"), emailRegex.MatchString(value):
		return IdentifierEmail
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return IdentifierURL
	}
	return IdentifierUnknown
}

// NewIdentifier creates an Identifier, detecting the type when it is unknown.
func NewIdentifier(value string, idType IdentifierType) Identifier {
	if idType == IdentifierUnknown {
		idType = DetectIdentifierType(value)
	}
	return Identifier{Type: idType, Value: NormalizeIdentifier(value, idType)}
}

// NormalizeIdentifier strips resolver prefixes from value.
func NormalizeIdentifier(value string, idType IdentifierType) string {
	value = strings.TrimSpace(value)

	switch idType {
	case IdentifierDOI:
		for _, p := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:", "DOI:"} {
			value = strings.TrimPrefix(value, p)
		}
		return value
	case IdentifierHandle:
		for _, p := range []string{"https://hdl.handle.net/", "http://hdl.handle.net/", "hdl:"} {
			value = strings.TrimPrefix(value, p)
		}
		return value
	case IdentifierORCID:
		return NormalizeORCID(value)
	case IdentifierArXiv:
		if i := strings.Index(value, "arxiv.org/abs/"); i >= 0 {
			value = value[i+len("arxiv.org/abs/"):]
		}
		return strings.TrimPrefix(strings.TrimPrefix(value, "arXiv:"), "arxiv:")
	case IdentifierEmail:
		return NormalizeEmail(value)
	case IdentifierISSN:
		return strings.ToUpper(value)
	default:
		return value
	}
}

// NormalizeORCID reduces an ORCID URL or bare id to the bare id: trailing
// slashes are dropped and only the last path segment is kept.
func NormalizeORCID(value string) string {
	value = strings.TrimRight(strings.TrimSpace(value), "/")
	if i := strings.LastIndex(value, "/"); i >= 0 {
		value = value[i+1:]
	}
	return strings.ToUpper(value)
}

// ValidORCID reports whether id is a bare ORCID with a correct ISO 7064
// mod 11-2 check character.
func ValidORCID(id string) bool {
	if !orcidRegex.MatchString(id) {
		return false
	}
	digits := strings.ReplaceAll(id, "-", "")
	total := 0
	for _, c := range digits[:len(digits)-1] {
		total = (total + int(c-'0')) * 2
	}
	check := (12 - total%11) % 11
	want := byte('0' + check)
	if check == 10 {
		want = 'X'
	}
	return digits[len(digits)-1] == want
}

// NormalizeEmail trims whitespace and a mailto: scheme.
func NormalizeEmail(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 7 && strings.EqualFold(value[:7], "mailto:") {
		value = value[7:]
	}
	return strings.TrimSpace(value)
}

// ValidEmail reports whether value looks like a single e-mail address.
func ValidEmail(value string) bool {
	return emailRegex.MatchString(value)
}
