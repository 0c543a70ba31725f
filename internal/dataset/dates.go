package dataset

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrUnparseableDate is returned when a value cannot be read as a date.
var ErrUnparseableDate = errors.New("unparseable date")

// Numeric day/month forms are matched with explicit layouts so the field
// order is fixed before dateparse sees the value. Single-digit verbs ("2",
// "1") also accept zero-padded values.
var (
	dayFirstLayouts = []string{
		"2/1/2006",
		"2-1-2006",
		"2.1.2006",
		"2/1/2006 15:04",
		"2/1/2006 15:04:05",
		"2/1/2006 3:04 PM",
		"2/1/2006 3:04:05 PM",
		"2-1-2006 15:04",
		"2-1-2006 15:04:05",
		"2.1.2006 15:04",
		"2/1/06",
		"2-1-06",
		"2.1.06",
	}

	monthFirstLayouts = []string{
		"1/2/2006",
		"1-2-2006",
		"1.2.2006",
		"1/2/2006 15:04",
		"1/2/2006 15:04:05",
		"1/2/2006 3:04 PM",
		"1/2/2006 3:04:05 PM",
		"1-2-2006 15:04",
		"1-2-2006 15:04:05",
		"1/2/06",
		"1-2-06",
	}

	// fallbackLayouts cover forms dateparse rejects or reads differently.
	fallbackLayouts = []string{
		"2006-1-2",
		"2006-1-2 15:04:05",
		"2006-1-2T15:04:05",
		"2006-1-2 15:04:05Z07:00",
		"2006-1-2T15:04:05-0700",
		"2006-01-02 15:04:05 -0700 MST",
		"20060102",
		time.ANSIC,
		"2006/1/2 15:04:05",
		"2-Jan-2006",
		"2-Jan-2006 15:04",
		"2-Jan-2006 15:04:05",
		"2 Jan 2006",
		"2 Jan 2006 15:04",
		"2 Jan 2006 15:04:05",
		"2-Jan-06",
		"2 Jan 06",
		"2-January-2006",
		"2 January 2006",
		"Jan 2, 2006",
		"Jan 2 2006",
		"January 2, 2006",
		"January 2 2006",
		"2006-Jan-2",
	}

	ordinalSuffix  = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)
	monthYearComma = regexp.MustCompile(`([A-Za-z]{3,}),\s*(\d{4})\b`)
	repeatedSpaces = regexp.MustCompile(`\s{2,}`)
	errEmptyDate   = fmt.Errorf("%w: empty value", ErrUnparseableDate)
)

// ParseDate reads a date in any of the mixed formats seen in index dumps.
// Ambiguous numeric day/month values are read day first; the month-first
// reading is only used when the day-first one is impossible (01/13/2024).
func ParseDate(value string) (time.Time, error) {
	return parseMixed(value, true)
}

// ParseMonthFirst reads a date like ParseDate but resolves ambiguous numeric
// values month first, falling back to day first (13/01/2024). Request
// bounds use this reading.
func ParseMonthFirst(value string) (time.Time, error) {
	return parseMixed(value, false)
}

func parseMixed(value string, dayFirst bool) (time.Time, error) {
	s := normalizeDate(value)
	if s == "" {
		return time.Time{}, errEmptyDate
	}

	preferred, swapped := dayFirstLayouts, monthFirstLayouts
	if !dayFirst {
		preferred, swapped = monthFirstLayouts, dayFirstLayouts
	}
	if t, ok := tryLayouts(s, preferred); ok {
		return t, nil
	}
	if t, ok := tryLayouts(s, swapped); ok {
		return t, nil
	}

	t, err := dateparse.ParseIn(s, time.UTC,
		dateparse.PreferMonthFirst(!dayFirst),
		dateparse.RetryAmbiguousDateWithSwap(true),
	)
	if err == nil {
		return t, nil
	}

	if t, ok := tryLayouts(s, fallbackLayouts); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, value)
}

func tryLayouts(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normalizeDate trims the value, drops ordinal suffixes ("5th") and a comma
// between month name and year ("5 Jan, 2024").
func normalizeDate(value string) string {
	s := strings.TrimSpace(value)
	s = ordinalSuffix.ReplaceAllString(s, "$1")
	s = monthYearComma.ReplaceAllString(s, "$1 $2")
	return repeatedSpaces.ReplaceAllString(s, " ")
}
