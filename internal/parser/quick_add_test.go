package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/balkashynov/daybook/internal/models"
)

func TestParseQuickAdd(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  QuickAdd
	}{
		{
			name:  "title only gets defaults",
			input: "  Buy   milk ",
			want: QuickAdd{
				Title:    "Buy milk",
				Tags:     []string{},
				Priority: models.PriorityMedium,
				Type:     models.TypeTask,
				Date:     "2026-10-17",
				Errors:   []string{},
			},
		},
		{
			name:  "every field",
			input: "Call mom #family,weekend @home +high on:tomorrow at:18:30 type:event",
			want: QuickAdd{
				Title:    "Call mom",
				Category: "home",
				Tags:     []string{"family", "weekend"},
				Priority: models.PriorityHigh,
				Type:     models.TypeEvent,
				Date:     "2026-10-18",
				Time:     "18:30",
				Errors:   []string{},
			},
		},
		{
			name:  "repeated tags and relative date",
			input: "Gym #health #health,legs due:3_days +1",
			want: QuickAdd{
				Title:    "Gym",
				Tags:     []string{"health", "legs"},
				Priority: models.PriorityLow,
				Type:     models.TypeTask,
				Date:     "2026-10-20",
				Errors:   []string{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuickAdd(tt.input, now))
		})
	}
}

func TestParseQuickAdd_Errors(t *testing.T) {
	got := ParseQuickAdd("Ship it +urgent on:someday type:meeting", now)

	assert.Equal(t, "Ship it", got.Title)
	assert.Equal(t, models.PriorityMedium, got.Priority)
	assert.Equal(t, models.TypeTask, got.Type)
	assert.Equal(t, "2026-10-17", got.Date)
	assert.Len(t, got.Errors, 3)
}

func TestQuickAdd_Item(t *testing.T) {
	item := ParseQuickAdd("Standup @work at:9:15", now).Item()

	assert.Equal(t, "Standup", item.Title)
	assert.Equal(t, "work", item.Category)
	assert.Equal(t, "09:15", item.Time)
	assert.Empty(t, item.ID)
	assert.False(t, item.Completed)
}

func TestNormalizePriority(t *testing.T) {
	for input, want := range map[string]models.Priority{
		"1": models.PriorityLow, "LOW": models.PriorityLow,
		"med": models.PriorityMedium, "2": models.PriorityMedium,
		"High": models.PriorityHigh, "3": models.PriorityHigh,
	} {
		got, ok := NormalizePriority(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	_, ok := NormalizePriority("4")
	assert.False(t, ok)
}
