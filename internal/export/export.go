// Package export dumps the stores to JSON or YAML.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/stats"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Document is the full export payload.
type Document struct {
	ExportedAt    time.Time         `json:"exportedAt" yaml:"exportedAt"`
	SchemaVersion int               `json:"schemaVersion" yaml:"schemaVersion"`
	Todos         []models.TodoItem `json:"todos" yaml:"todos"`
	Tasks         []Task            `json:"tasks" yaml:"tasks"`
	Categories    []models.Category `json:"categories" yaml:"categories"`
}

// Task is a task record with its aggregates attached.
type Task struct {
	models.TaskRecord `yaml:",inline"`
	Stats             stats.Millis `json:"stats" yaml:"stats"`
}

// Build reads every record from both stores.
func Build(ctx context.Context, stores *db.Stores, now time.Time) (Document, error) {
	todos, err := stores.Todos.All(ctx)
	if err != nil {
		return Document{}, err
	}
	tasks, err := stores.Tasks.AllTasks(ctx)
	if err != nil {
		return Document{}, err
	}
	categories, err := stores.Tasks.Categories(ctx)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ExportedAt:    now,
		SchemaVersion: db.SchemaVersion,
		Todos:         todos,
		Tasks:         make([]Task, 0, len(tasks)),
		Categories:    categories,
	}
	for _, t := range tasks {
		doc.Tasks = append(doc.Tasks, Task{TaskRecord: t, Stats: stats.ForTask(t).Millis()})
	}
	return doc, nil
}

// Write encodes doc to w in the requested format.
func Write(w io.Writer, doc Document, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported export format %q (use json or yaml)", format)
	}
}
