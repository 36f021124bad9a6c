// Package normalize holds the pure field normalizers applied to raw lead
// values: date unification, country-name to ISO code mapping, phone
// assembly, and text sanitization. All of them are total — malformed input
// degrades to a best-effort or empty result, never an error.
package normalize

import (
	"strings"
	"time"
	"unicode"
)

// dateLayouts are the accepted source date layouts, tried in order.
// Day-first layouts come before month-first, matching the upstream feed's
// dominant convention; time.Parse rejects out-of-range components, so an
// unambiguous value lands on the correct layout regardless.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"01-02-2006",
	"01-02-06",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// Date converts a source date string in any recognized layout to ISO-8601
// YYYY-MM-DD. Trailing time components ("T00:00:00", "Z", "+00:00") are
// stripped before parsing. Unrecognized input yields "".
func Date(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || s == "null" {
		return ""
	}

	// Drop time-of-day and zone suffixes from timestamp forms.
	s = strings.ReplaceAll(s, "Z", "")
	if i := strings.IndexAny(s, "+"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "T"); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, ' '); i >= 0 && strings.Contains(s[i+1:], ":") {
		s = s[:i]
	}
	s = strings.TrimSpace(s)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// Phone assembles an area code and a local number into one string.
// Missing components degrade to whichever part is present.
func Phone(areaCode, number string) string {
	areaCode = strings.TrimSpace(areaCode)
	number = strings.TrimSpace(number)
	switch {
	case areaCode != "" && number != "":
		return areaCode + "-" + number
	case number != "":
		return number
	default:
		return areaCode
	}
}

// Text strips embedded newlines and control characters and collapses
// whitespace runs to a single space. Idempotent.
func Text(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// ZeroPadZip left-pads a US zip to five digits. Feeds that carry the zip
// as a number lose leading zeros upstream; empty stays empty.
func ZeroPadZip(zip string) string {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return ""
	}
	for len(zip) < 5 {
		zip = "0" + zip
	}
	return zip
}

// SplitName splits a full contact name into first and last on the first
// whitespace run. A single token becomes the first name with an empty last.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
