package models

import "time"

// Category is a named colour label for tasks. TaskRecord.Category is a
// free-form string and does not reference this table.
type Category struct {
	ID        string    `gorm:"primaryKey" json:"id" yaml:"id"`
	Name      string    `gorm:"not null" json:"name" yaml:"name"`
	Color     string    `json:"color" yaml:"color"`
	Icon      string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt" yaml:"updatedAt"`
}

// TableName keeps the collection name stable regardless of the Go type name.
func (Category) TableName() string {
	return "categories"
}

// NewCategory is the caller-provided part of a Category.
type NewCategory struct {
	Name  string `validate:"required"`
	Color string `validate:"required,hexcolor"`
	Icon  string
}
