package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// canonicalDate is the only shape NormalizeDate ever returns.
var canonicalDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dateLayout describes one accepted date shape and how its capture groups map to year, month, day.
type dateLayout struct {
	name    string
	pattern *regexp.Regexp
	convert func(groups []string) (string, bool)
}

// Tried in order; the first layout that matches anywhere in the fragment decides the result.
var dateLayouts = []dateLayout{
	{"YYYY-MM-DD", regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`), yearFirst},
	{"DD-MM-YYYY", regexp.MustCompile(`(?:^|\D)(\d{1,2})-(\d{1,2})-(\d{4})`), yearLast},
	{"DD/MM/YYYY", regexp.MustCompile(`(?:^|\D)(\d{1,2})/(\d{1,2})/(\d{4})`), yearLast},
	{"YYYY/MM/DD", regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`), yearFirst},
	{"DD.MM.YYYY", regexp.MustCompile(`(?:^|\D)(\d{1,2})\.(\d{1,2})\.(\d{4})`), yearLast},
	{"YYYY.MM.DD", regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`), yearFirst},
	{"D Month YYYY", regexp.MustCompile(`(?:^|\D)(\d{1,2})\s+([A-Za-z]+)\.?\s+(\d{4})`), dayMonthNameYear},
	{"Month D, YYYY", regexp.MustCompile(`([A-Za-z]+)\.?\s+(\d{1,2}),?\s+(\d{4})`), monthNameDayYear},
	{"YYYY-MM-DDTHH:MM:SS", regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})T\d{2}:\d{2}:\d{2}`), yearFirst},
}

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "jun": 6, "jul": 7,
	"aug": 8, "sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

// NormalizeDate reformats a raw WHOIS date fragment into YYYY-MM-DD.
// It is purely syntactic: 2024-02-30 is accepted, and no timezone is applied.
// The boolean is false when no layout produced a canonical date.
func NormalizeDate(raw string) (string, bool) {
	fragment := strings.TrimSpace(raw)
	if fragment == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		groups := layout.pattern.FindStringSubmatch(fragment)
		if groups == nil {
			continue
		}
		date, ok := layout.convert(groups[1:])
		if ok && canonicalDate.MatchString(date) {
			return date, true
		}
	}

	return "", false
}

func yearFirst(g []string) (string, bool) {
	return joinDate(g[0], g[1], g[2]), true
}

// yearLast treats the leading group as the day and the middle group as the month.
func yearLast(g []string) (string, bool) {
	return joinDate(g[2], g[1], g[0]), true
}

func dayMonthNameYear(g []string) (string, bool) {
	month, ok := monthNumbers[strings.ToLower(g[1])]
	if !ok {
		return "", false
	}
	return joinDate(g[2], fmt.Sprintf("%d", month), g[0]), true
}

func monthNameDayYear(g []string) (string, bool) {
	month, ok := monthNumbers[strings.ToLower(g[0])]
	if !ok {
		return "", false
	}
	return joinDate(g[2], fmt.Sprintf("%d", month), g[1]), true
}

func joinDate(year, month, day string) string {
	return year + "-" + padTwo(month) + "-" + padTwo(day)
}

func padTwo(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
