package hub

import "strings"

// MARCRelators maps MARC relator codes to labels for the contributor roles
// scholarly markup actually carries.
var MARCRelators = map[string]string{
	"aut": "Author",
	"cre": "Creator",
	"edt": "Editor",
	"com": "Compiler",
	"trl": "Translator",
	"ill": "Illustrator",
	"ctb": "Contributor",
	"ths": "Thesis advisor",
	"dgs": "Degree supervisor",
	"rev": "Reviewer",
	"pbl": "Publisher",
	"res": "Researcher",
	"fnd": "Funder",
	"spn": "Sponsor",
	"dtc": "Data contributor",
	"dtm": "Data manager",
	"prg": "Programmer",
	"cph": "Copyright holder",
	"oth": "Other",
}

// Common role spellings found in contrib-type attributes and role elements.
var roleAliases = map[string]string{
	"author":           "aut",
	"authors":          "aut",
	"collab":           "aut",
	"creator":          "cre",
	"editor":           "edt",
	"editors":          "edt",
	"guest-editor":     "edt",
	"guest editor":     "edt",
	"section-editor":   "edt",
	"translator":       "trl",
	"contributor":      "ctb",
	"reviewer":         "rev",
	"referee":          "rev",
	"advisor":          "ths",
	"thesis advisor":   "ths",
	"supervisor":       "dgs",
	"funder":           "fnd",
	"sponsor":          "spn",
	"data curation":    "dtm",
	"software":         "prg",
	"investigation":    "res",
	"corresponding":    "aut",
	"copyright-holder": "cph",
	"copyright holder": "cph",
	"publisher":        "pbl",
}

// RelatorCodeFromURI extracts the relator code from "relators:xxx" or a
// full id.loc.gov URI. Anything else is returned unchanged.
func RelatorCodeFromURI(uri string) string {
	if strings.HasPrefix(uri, "relators:") {
		return strings.TrimPrefix(uri, "relators:")
	}
	if i := strings.Index(uri, "relators/"); i >= 0 {
		return strings.TrimSuffix(uri[i+len("relators/"):], "/")
	}
	return uri
}

// NormalizeRole maps a role label, MARC code or relator URI to a MARC
// relator code. Unknown roles are returned trimmed but otherwise unchanged.
func NormalizeRole(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return ""
	}

	code := strings.ToLower(RelatorCodeFromURI(role))
	if _, ok := MARCRelators[code]; ok {
		return code
	}

	lower := strings.ToLower(role)
	if c, ok := roleAliases[lower]; ok {
		return c
	}
	for c, label := range MARCRelators {
		if strings.ToLower(label) == lower {
			return c
		}
	}
	return role
}

// RelatorLabel returns the label for a relator code, or the input when the
// code is unknown.
func RelatorLabel(codeOrURI string) string {
	if label, ok := MARCRelators[strings.ToLower(RelatorCodeFromURI(codeOrURI))]; ok {
		return label
	}
	return codeOrURI
}

// IsAuthorRole reports whether a contrib-type value routes a contributor to
// the author list. A missing type counts as author.
func IsAuthorRole(contribType string) bool {
	switch strings.ToLower(strings.TrimSpace(contribType)) {
	case "", "author", "collab":
		return true
	}
	return false
}
