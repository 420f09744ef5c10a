package hub

import (
	"strings"
)

// NewLicense builds a License from the URL and text a source carries,
// deriving Type from the URL when the source does not name it.
func NewLicense(licenseType, url, text string) License {
	l := License{
		Type: strings.TrimSpace(licenseType),
		URL:  strings.TrimSpace(url),
		Text: strings.TrimSpace(text),
	}
	if l.Type == "" && l.URL != "" {
		l.Type = LicenseLabel(l.URL)
	}
	return l
}

// IsZero reports whether nothing is known about the license.
func (l License) IsZero() bool {
	return l.Type == "" && l.URL == "" && l.Text == ""
}

// IsOpenAccess reports whether the license allows open access reuse.
func (l License) IsOpenAccess() bool {
	url := strings.ToLower(l.URL)
	typ := strings.ToLower(l.Type)

	switch {
	case strings.Contains(url, "creativecommons.org"),
		strings.Contains(url, "publicdomain"),
		strings.HasPrefix(typ, "cc"),
		typ == "open-access",
		typ == "openaccess":
		return true
	}
	return false
}

// LicenseLabel returns a short label for a license URL: "CC BY-NC 4.0",
// "CC0", or the URL itself when it is not recognized.
func LicenseLabel(url string) string {
	lower := strings.ToLower(strings.TrimRight(url, "/"))
	if !strings.Contains(lower, "creativecommons.org") {
		return url
	}
	if strings.Contains(lower, "/zero/") || strings.Contains(lower, "/publicdomain/") {
		return "CC0"
	}

	i := strings.Index(lower, "/licenses/")
	if i < 0 {
		return url
	}
	parts := strings.Split(lower[i+len("/licenses/"):], "/")
	label := "CC " + strings.ToUpper(parts[0])
	if len(parts) > 1 && parts[1] != "" {
		label += " " + parts[1]
	}
	return label
}
