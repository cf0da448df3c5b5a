package models

import "time"

// Priority is the urgency badge shown next to a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// TodoType records what the user meant to create. It is not checked
// against the other fields.
type TodoType string

const (
	TypeTask    TodoType = "task"
	TypeEvent   TodoType = "event"
	TypeNote    TodoType = "note"
	TypeProject TodoType = "project"
	TypeTimer   TodoType = "timer"
	TypeUpload  TodoType = "upload"
	TypeChat    TodoType = "chat"
)

// TodoTypes lists every known todo type in menu order.
var TodoTypes = []TodoType{TypeTask, TypeEvent, TypeNote, TypeProject, TypeTimer, TypeUpload, TypeChat}

// DateLayout is the calendar-day format used for TodoItem.Date.
const DateLayout = "2006-01-02"

// ClockLayout is the time-of-day format used for TodoItem.Time.
const ClockLayout = "15:04"

// TodoItem is one entry of the daily todo list
type TodoItem struct {
	ID          string    `gorm:"primaryKey" json:"id" yaml:"id"`
	Title       string    `gorm:"not null" json:"title" yaml:"title" validate:"required"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Date        string    `gorm:"index;not null" json:"date" yaml:"date" validate:"required,calendardate"`
	Time        string    `json:"time" yaml:"time" validate:"omitempty,clock"`
	Priority    Priority  `json:"priority" yaml:"priority" validate:"required,oneof=low medium high"`
	Category    string    `gorm:"index" json:"category" yaml:"category"`
	Tags        []string  `gorm:"serializer:json" json:"tags" yaml:"tags" validate:"unique,dive,required"`
	Type        TodoType  `gorm:"index" json:"type" yaml:"type" validate:"required,oneof=task event note project timer upload chat"`
	Completed   bool      `gorm:"not null" json:"completed" yaml:"completed"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false" json:"createdAt" yaml:"createdAt"`
}

// TableName keeps the collection name stable regardless of the Go type name.
func (TodoItem) TableName() string {
	return "todos"
}

// HasTag reports whether the item already carries tag (exact match).
func (t TodoItem) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// IsValidTodoType reports whether s names a known todo type.
func IsValidTodoType(s string) bool {
	for _, t := range TodoTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}
