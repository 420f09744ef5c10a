// Package hub holds the records the classifier and resolver produce and the
// helpers used to render and validate them.
package hub

import (
	"strings"
)

// Sentinel affiliation keys for blocks that carry no id and therefore apply
// to every author or every other contributor of a group.
const (
	AllAuthors      = "ALLAUTH"
	AllContributors = "ALLCONTRIB"
)

// Name is a classified author string: a ParsedName or a Collaboration.
type Name interface {
	Raw() string
	isName()
}

// ParsedName is a personal name split into its parts.
type ParsedName struct {
	Given   string `json:"given"`
	Middle  string `json:"middle"`
	Surname string `json:"surname"`
	Prefix  string `json:"prefix"`
	Suffix  string `json:"suffix"`
	NameRaw string `json:"nameraw"`
}

// Collaboration is a group author such as "Planck Collaboration".
type Collaboration struct {
	Collab  string `json:"collab"`
	NameRaw string `json:"nameraw"`
}

func (p ParsedName) Raw() string    { return p.NameRaw }
func (c Collaboration) Raw() string { return c.NameRaw }

func (ParsedName) isName()    {}
func (Collaboration) isName() {}

// DisplayName returns the best available display form of n.
func DisplayName(n Name) string {
	switch v := n.(type) {
	case ParsedName:
		if s := ParsedNameInverted(v); s != "" {
			return s
		}
		return v.NameRaw
	case Collaboration:
		return v.Collab
	}
	return ""
}

// ParsedNameInverted returns the name in "Surname, Given Middle Suffix" form.
func ParsedNameInverted(p ParsedName) string {
	result := p.Surname
	var rest []string
	for _, s := range []string{p.Given, p.Middle, p.Suffix} {
		if s != "" {
			rest = append(rest, s)
		}
	}
	if len(rest) == 0 {
		return result
	}
	if result == "" {
		return strings.Join(rest, " ")
	}
	return result + ", " + strings.Join(rest, " ")
}

// ParsedNameDirect returns the name in "Prefix Given Middle Surname Suffix" form.
func ParsedNameDirect(p ParsedName) string {
	var parts []string
	for _, s := range []string{p.Prefix, p.Given, p.Middle, p.Surname, p.Suffix} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ExtraID is an institution identifier attached to an affiliation (ROR,
// Ringgold, ISNI...).
type ExtraID struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// AffiliationRecord is an affiliation block keyed by its cross-reference id.
type AffiliationRecord struct {
	Key      string    `json:"key"`
	Text     string    `json:"text"`
	ExtraIDs []ExtraID `json:"extra_ids,omitempty"`
}

// Contributor is one resolved author or contributor. Email and ORCID hold
// at most one validated value each.
type Contributor struct {
	Surname          string      `json:"surname"`
	Given            string      `json:"given"`
	NativeLanguage   string      `json:"native_language,omitempty"`
	Correspondence   bool        `json:"correspondence"`
	Affiliations     []string    `json:"affiliations,omitempty"`
	AffiliationIDs   [][]ExtraID `json:"affiliation_ids,omitempty"`
	Email            string      `json:"email,omitempty"`
	ORCID            string      `json:"orcid,omitempty"`
	Role             string      `json:"role,omitempty"`
	Collab           string      `json:"collab,omitempty"`
	XrefAffiliations []string    `json:"xaff,omitempty"`
	XrefEmails       []string    `json:"xemail,omitempty"`
}

// Name renders the contributor for display: the collaboration label for a
// bare group entry, otherwise "Surname, Given".
func (c Contributor) Name() string {
	if c.Surname == "" && c.Given == "" {
		return c.Collab
	}
	return ParsedNameInverted(ParsedName{Surname: c.Surname, Given: c.Given})
}

// Contributors is the output of one resolve call.
type Contributors struct {
	Authors      []Contributor `json:"authors"`
	Contributors []Contributor `json:"contributors"`
}

// All returns authors followed by the other contributors.
func (c Contributors) All() []Contributor {
	all := make([]Contributor, 0, len(c.Authors)+len(c.Contributors))
	all = append(all, c.Authors...)
	return append(all, c.Contributors...)
}

// Len returns the total number of entries.
func (c Contributors) Len() int {
	return len(c.Authors) + len(c.Contributors)
}
