package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/balkashynov/daybook/internal/models"
)

var (
	tagRegex      = regexp.MustCompile(`#([\p{L}0-9_,-]+)`)
	categoryRegex = regexp.MustCompile(`@([\p{L}0-9_-]+)`)
	priorityRegex = regexp.MustCompile(`\+([a-zA-Z0-9]+)`)
	onRegex       = regexp.MustCompile(`(?:on|due):(\S+)`)
	atRegex       = regexp.MustCompile(`\bat:(\d{1,2}:\d{2})\b`)
	typeRegex     = regexp.MustCompile(`\btype:([a-z]+)\b`)
)

// QuickAdd is a todo drafted from a single line of text.
type QuickAdd struct {
	Title    string
	Category string
	Tags     []string
	Priority models.Priority
	Type     models.TodoType
	Date     string
	Time     string
	Errors   []string
}

// ParseQuickAdd extracts todo fields from a line using the syntax
// "Title #tag1,tag2 @category +priority on:tomorrow at:09:30 type:event".
// Anything not recognised stays in the title. Missing fields default to
// medium priority, type task and today's date.
func ParseQuickAdd(input string, now time.Time) QuickAdd {
	result := QuickAdd{
		Tags:     []string{},
		Priority: models.PriorityMedium,
		Type:     models.TypeTask,
		Date:     FormatDate(now),
		Errors:   []string{},
	}

	// Extract tags (#tag1,tag2 or #tag1 #tag2), skipping repeats
	for _, match := range tagRegex.FindAllStringSubmatch(input, -1) {
		for _, tag := range strings.Split(match[1], ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" && !contains(result.Tags, tag) {
				result.Tags = append(result.Tags, tag)
			}
		}
	}
	input = tagRegex.ReplaceAllString(input, "")

	if m := categoryRegex.FindStringSubmatch(input); len(m) > 1 {
		result.Category = m[1]
		input = categoryRegex.ReplaceAllString(input, "")
	}

	if m := priorityRegex.FindStringSubmatch(input); len(m) > 1 {
		if p, ok := NormalizePriority(m[1]); ok {
			result.Priority = p
		} else {
			result.Errors = append(result.Errors, "Invalid priority '"+m[1]+"'. Use: low, medium, high, 1, 2, or 3")
		}
		input = priorityRegex.ReplaceAllString(input, "")
	}

	if m := onRegex.FindStringSubmatch(input); len(m) > 1 {
		if d, err := ParseDate(strings.ReplaceAll(m[1], "_", " "), now); err != nil {
			result.Errors = append(result.Errors, "Invalid date '"+m[1]+"': "+err.Error())
		} else {
			result.Date = FormatDate(d)
		}
		input = onRegex.ReplaceAllString(input, "")
	}

	if m := atRegex.FindStringSubmatch(input); len(m) > 1 {
		if t, err := ParseClock(m[1], now); err != nil {
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.Time = t.Format(models.ClockLayout)
		}
		input = atRegex.ReplaceAllString(input, "")
	}

	if m := typeRegex.FindStringSubmatch(input); len(m) > 1 {
		if models.IsValidTodoType(m[1]) {
			result.Type = models.TodoType(m[1])
		} else {
			result.Errors = append(result.Errors, "Unknown type '"+m[1]+"'")
		}
		input = typeRegex.ReplaceAllString(input, "")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")

	return result
}

// Item converts the draft into a todo ready for validation and storage.
func (q QuickAdd) Item() models.TodoItem {
	return models.TodoItem{
		Title:    q.Title,
		Date:     q.Date,
		Time:     q.Time,
		Priority: q.Priority,
		Category: q.Category,
		Tags:     q.Tags,
		Type:     q.Type,
	}
}

// NormalizePriority maps low/medium/med/high and 1/2/3 to a Priority.
func NormalizePriority(priority string) (models.Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case "1", "low":
		return models.PriorityLow, true
	case "2", "medium", "med":
		return models.PriorityMedium, true
	case "3", "high":
		return models.PriorityHigh, true
	default:
		return "", false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
