package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// dateFormats are the accepted broker-file date layouts, tried in order.
// First success wins.
var dateFormats = []string{
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
}

// datePattern accepts any of the three delimiter styles, with the same
// delimiter on both sides. Shape only: 31/04/2024 passes the pattern and is
// rejected later by the calendar-aware parse.
var datePattern = regexp.MustCompile(`^\d{2}(/\d{2}/|-\d{2}-|\.\d{2}\.)\d{4}$`)

// MatchesDateShape reports whether a cell looks like one of the accepted
// date formats. Used for the strict pre-parse validation gate.
func MatchesDateShape(s string) bool {
	return datePattern.MatchString(strings.TrimSpace(s))
}

// ParseFlexibleDate parses a day-first date in any of the accepted formats.
func ParseFlexibleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q (accepted: DD/MM/YYYY, DD-MM-YYYY, DD.MM.YYYY)", s)
}

// FormatISODate renders a date the way the staging table expects it.
func FormatISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatCompactDate renders a date as YYYYMMDD, as used in settle-feed tickers.
func FormatCompactDate(t time.Time) string {
	return t.Format("20060102")
}

// FormatMonthYY renders a delivery month as an upper-cased abbreviated
// month / two-digit year string, e.g. "JAN-25". One downstream schema wants
// this instead of the ISO rendering.
func FormatMonthYY(t time.Time) string {
	return strings.ToUpper(t.Format("Jan-06"))
}

// StripAllWhitespace removes every whitespace rune, not just the edges.
// Applied to join-key columns where embedded spaces would break matching.
func StripAllWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)
}
