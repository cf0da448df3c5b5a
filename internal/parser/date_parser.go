package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/balkashynov/daybook/internal/models"
)

var (
	slashDateRegex = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex  = regexp.MustCompile(`^([+-]?\d+)\s*(day|days|week|weeks)$`)
	clockRegex     = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// ParseDate parses a calendar day relative to now.
// Supported formats:
// - yyyy-mm-dd (e.g., "2026-10-17")
// - dd/mm/yyyy (e.g., "17/10/2026")
// - today, tomorrow, yesterday
// - X days / X weeks, optionally signed (e.g., "3 days", "-1 week")
//
// The result is midnight of that day in now's location.
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if d, err := time.ParseInLocation(models.DateLayout, input, now.Location()); err == nil {
		return d, nil
	}

	if d, err := parseSlashDate(input, now.Location()); err == nil {
		return d, nil
	}

	if d, err := parseRelativeDays(input, today); err == nil {
		return d, nil
	}

	return time.Time{}, fmt.Errorf("invalid date %q. Use: yyyy-mm-dd, dd/mm/yyyy, today, tomorrow, yesterday, X days or X weeks", input)
}

// FormatDate renders t as the YYYY-MM-DD key used by todos.
func FormatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// parseSlashDate parses dd/mm/yyyy format
func parseSlashDate(input string, loc *time.Location) (time.Time, error) {
	matches := slashDateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return time.Time{}, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day must be between 1 and 31")
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("month must be between 1 and 12")
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	// time.Date normalises 31/02 into March; reject instead
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return d, nil
}

// parseRelativeDays parses "3 days", "-2 weeks" and friends.
func parseRelativeDays(input string, today time.Time) (time.Time, error) {
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return time.Time{}, fmt.Errorf("invalid relative date format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid number")
	}
	if amount < -365 || amount > 365 {
		return time.Time{}, fmt.Errorf("relative dates must stay within a year")
	}

	switch matches[2] {
	case "week", "weeks":
		return today.AddDate(0, 0, amount*7), nil
	default:
		return today.AddDate(0, 0, amount), nil
	}
}

// ParseClock places an HH:MM time of day on day. Inputs that are a full
// RFC 3339 timestamp are returned as is.
func ParseClock(input string, day time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}

	matches := clockRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return time.Time{}, fmt.Errorf("invalid time %q. Use HH:MM or an RFC 3339 timestamp", input)
	}

	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])
	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("invalid time %q", input)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

// ParseInterval parses "HH:MM-HH:MM" on day into a start and end.
func ParseInterval(input string, day time.Time) (time.Time, time.Time, error) {
	parts := strings.Split(input, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid interval %q. Use HH:MM-HH:MM", input)
	}
	start, err := ParseClock(parts[0], day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseClock(parts[1], day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
