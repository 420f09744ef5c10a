package hub

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Precision of a partial publication date.
type Precision int

const (
	PrecisionNone Precision = iota
	PrecisionYear
	PrecisionMonth
	PrecisionDay
)

// PubDate is a publication date that may be known only to the year or month.
type PubDate struct {
	Type  string `json:"type,omitempty"` // epub, ppub, collection...
	Year  int    `json:"year,omitempty"`
	Month int    `json:"month,omitempty"`
	Day   int    `json:"day,omitempty"`
	Raw   string `json:"raw,omitempty"`
}

// Precision reports the most specific component that is set.
func (d PubDate) Precision() Precision {
	switch {
	case d.Year == 0:
		return PrecisionNone
	case d.Month == 0:
		return PrecisionYear
	case d.Day == 0:
		return PrecisionMonth
	default:
		return PrecisionDay
	}
}

// IsZero reports whether no year is known.
func (d PubDate) IsZero() bool {
	return d.Year == 0
}

// String returns the date as YYYY, YYYY-MM or YYYY-MM-DD, falling back to
// the raw text when no year could be read.
func (d PubDate) String() string {
	switch d.Precision() {
	case PrecisionYear:
		return fmt.Sprintf("%04d", d.Year)
	case PrecisionMonth:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	case PrecisionDay:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
	return d.Raw
}

// Time converts the date to a time.Time, filling missing parts with 1.
func (d PubDate) Time() time.Time {
	if d.Year == 0 {
		return time.Time{}
	}
	month, day := d.Month, d.Day
	if month == 0 {
		month = 1
	}
	if day == 0 {
		day = 1
	}
	return time.Date(d.Year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// MonthLookup resolves month names; *lookup.Tables satisfies it.
type MonthLookup interface {
	Month(name string) (int, bool)
}

// ParsePubDate reads free-form dates such as "2021-03-05", "2021-03",
// "March 2021", "5 Mar 2021" or "2021". Unparseable parts are left zero and
// the input is kept in Raw.
func ParsePubDate(raw string, months MonthLookup) PubDate {
	d := PubDate{Raw: strings.TrimSpace(raw)}
	if d.Raw == "" {
		return d
	}

	// ISO-ish first: the leading date part of a timestamp
	iso := d.Raw
	if i := strings.IndexAny(iso, "T "); i > 0 {
		iso = iso[:i]
	}
	if parts := strings.Split(iso, "-"); len(parts[0]) == 4 {
		if y, err := strconv.Atoi(parts[0]); err == nil {
			d.Year = y
			if len(parts) > 1 {
				d.Month, _ = strconv.Atoi(parts[1])
			}
			if len(parts) > 2 {
				d.Day, _ = strconv.Atoi(parts[2])
			}
			return d.clamp()
		}
	}

	for _, tok := range strings.FieldsFunc(d.Raw, func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '.'
	}) {
		n, err := strconv.Atoi(tok)
		switch {
		case err == nil && len(tok) == 4:
			d.Year = n
		case err == nil && n >= 1 && n <= 31 && d.Day == 0:
			d.Day = n
		case err != nil && months != nil && d.Month == 0:
			if m, ok := months.Month(tok); ok {
				d.Month = m
			}
		}
	}
	return d.clamp()
}

// NewPubDate builds a date from separately tagged parts, as JATS pub-date
// carries them. month may be a number or a name.
func NewPubDate(year, month, day string, months MonthLookup) PubDate {
	d := PubDate{}
	d.Year, _ = strconv.Atoi(strings.TrimSpace(year))
	if month = strings.TrimSpace(month); month != "" && months != nil {
		d.Month, _ = months.Month(month)
	}
	d.Day, _ = strconv.Atoi(strings.TrimSpace(day))
	d.Raw = strings.Join(strings.Fields(year+" "+month+" "+day), " ")
	return d.clamp()
}

func (d PubDate) clamp() PubDate {
	if d.Month < 1 || d.Month > 12 {
		d.Month, d.Day = 0, 0
	}
	if d.Day < 1 || d.Day > 31 {
		d.Day = 0
	}
	if d.Year == 0 {
		d.Month, d.Day = 0, 0
	}
	return d
}
