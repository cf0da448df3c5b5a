package models

import (
	"time"
)

// RecurringPattern is how often a recurring task repeats.
type RecurringPattern string

const (
	RecurDaily   RecurringPattern = "daily"
	RecurWeekly  RecurringPattern = "weekly"
	RecurMonthly RecurringPattern = "monthly"
)

// TaskRecord is a calendar task together with its tracked sessions.
type TaskRecord struct {
	ID               string           `gorm:"primaryKey" json:"id" yaml:"id"`
	Title            string           `gorm:"not null" json:"title" yaml:"title"`
	Description      string           `json:"description,omitempty" yaml:"description,omitempty"`
	Date             time.Time        `gorm:"index;not null" json:"date" yaml:"date"`
	Duration         int              `json:"duration" yaml:"duration"` // planned minutes, not tracked time
	Category         string           `gorm:"index" json:"category" yaml:"category"`
	IsRecurring      bool             `json:"isRecurring" yaml:"isRecurring"`
	RecurringPattern RecurringPattern `json:"recurringPattern,omitempty" yaml:"recurringPattern,omitempty"`
	Completed        bool             `gorm:"not null" json:"completed" yaml:"completed"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	Tags             []string         `gorm:"serializer:json" json:"tags,omitempty" yaml:"tags,omitempty"`
	Notes            string           `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt        time.Time        `gorm:"autoCreateTime:false" json:"createdAt" yaml:"createdAt"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime:false" json:"updatedAt" yaml:"updatedAt"`

	// Relationships
	TimeTracking []Session `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"timeTracking" yaml:"timeTracking"`
}

// TableName keeps the collection name stable regardless of the Go type name.
func (TaskRecord) TableName() string {
	return "tasks"
}

// NewTask holds everything a caller provides when creating a task. The
// store assigns the id and timestamps.
type NewTask struct {
	Title            string `validate:"required"`
	Description      string
	Date             time.Time `validate:"required"`
	Duration         int       `validate:"gte=0"`
	Category         string
	IsRecurring      bool
	RecurringPattern RecurringPattern `validate:"omitempty,oneof=daily weekly monthly"`
	Completed        bool
	CompletedAt      *time.Time
	Tags             []string `validate:"dive,required"`
	Notes            string
	TimeTracking     []Session `validate:"dive"`
}

// Record builds the stored form of n.
func (n NewTask) Record(id string, now time.Time) TaskRecord {
	return TaskRecord{
		ID:               id,
		Title:            n.Title,
		Description:      n.Description,
		Date:             n.Date,
		Duration:         n.Duration,
		Category:         n.Category,
		IsRecurring:      n.IsRecurring,
		RecurringPattern: n.RecurringPattern,
		Completed:        n.Completed,
		CompletedAt:      n.CompletedAt,
		Tags:             n.Tags,
		Notes:            n.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
		TimeTracking:     n.TimeTracking,
	}
}

// TaskUpdate is a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title            *string
	Description      *string
	Date             *time.Time
	Duration         *int `validate:"omitempty,gte=0"`
	Category         *string
	IsRecurring      *bool
	RecurringPattern *RecurringPattern `validate:"omitempty,oneof=daily weekly monthly"`
	Completed        *bool
	CompletedAt      *time.Time
	Tags             *[]string
	Notes            *string
}

// Apply merges the set fields of u into t. Reopening a task (Completed set
// to false) clears CompletedAt unless the update supplies one; turning
// recurrence off clears the pattern the same way.
func (u TaskUpdate) Apply(t *TaskRecord) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
	if u.Duration != nil {
		t.Duration = *u.Duration
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.IsRecurring != nil {
		t.IsRecurring = *u.IsRecurring
		if !t.IsRecurring && u.RecurringPattern == nil {
			t.RecurringPattern = ""
		}
	}
	if u.RecurringPattern != nil {
		t.RecurringPattern = *u.RecurringPattern
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
		if !t.Completed && u.CompletedAt == nil {
			t.CompletedAt = nil
		}
	}
	if u.CompletedAt != nil {
		completedAt := *u.CompletedAt
		t.CompletedAt = &completedAt
	}
	if u.Tags != nil {
		t.Tags = append([]string(nil), (*u.Tags)...)
	}
	if u.Notes != nil {
		t.Notes = *u.Notes
	}
}

// Empty reports whether the update sets no field at all.
func (u TaskUpdate) Empty() bool {
	return u == TaskUpdate{}
}

// Session is one contiguous tracked work interval.
type Session struct {
	ID        uint      `gorm:"primarykey" json:"-" yaml:"-"`
	TaskID    string    `gorm:"index;not null" json:"-" yaml:"-"`
	StartTime time.Time `gorm:"not null" json:"startTime" yaml:"startTime" validate:"required"`
	EndTime   time.Time `gorm:"not null" json:"endTime" yaml:"endTime" validate:"required,gtefield=StartTime"`
	Breaks    []Break   `gorm:"serializer:json" json:"breaks" yaml:"breaks" validate:"dive"`
}

// TableName keeps the collection name stable regardless of the Go type name.
func (Session) TableName() string {
	return "sessions"
}

// Duration is the wall-clock length of the session, breaks included.
func (s Session) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// BreakTime sums the length of every break in the session.
func (s Session) BreakTime() time.Duration {
	var total time.Duration
	for _, b := range s.Breaks {
		total += b.Duration()
	}
	return total
}

// Break is a pause inside a session.
type Break struct {
	Start time.Time `json:"start" yaml:"start" validate:"required"`
	End   time.Time `json:"end" yaml:"end" validate:"required,gtefield=Start"`
}

// Duration is the length of the break.
func (b Break) Duration() time.Duration {
	return b.End.Sub(b.Start)
}
