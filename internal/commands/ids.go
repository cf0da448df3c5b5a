package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/balkashynov/daybook/internal/db"
)

// shortIDLen is how much of a UUID tables show.
const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// resolvePrefix finds the single id starting with prefix. An exact match
// always wins over prefix matches.
func resolvePrefix(kind, prefix string, ids []string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("empty %s id", kind)
	}

	var matches []string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, prefix, db.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, prefix, len(matches))
	}
}

func (a *app) resolveTodoID(ctx context.Context, prefix string) (string, error) {
	items, err := a.stores.Todos.All(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return resolvePrefix("todo", prefix, ids)
}

func (a *app) resolveTaskID(ctx context.Context, prefix string) (string, error) {
	tasks, err := a.stores.Tasks.AllTasks(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolvePrefix("task", prefix, ids)
}
