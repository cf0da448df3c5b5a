package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balkashynov/daybook/internal/models"
)

// TodoStore persists the daily todo list in "todo-app-db".
type TodoStore struct {
	conn  *Conn
	locks keyedMutex
	log   *slog.Logger
	now   func() time.Time
}

// NewTodoStore prepares a todo store under cfg.Dir.
func NewTodoStore(cfg Config) *TodoStore {
	conn := newConn(TodoDBName, cfg, &models.TodoItem{})
	return &TodoStore{
		conn: conn,
		log:  conn.log,
		now:  time.Now,
	}
}

// Conn exposes the underlying connection handle.
func (s *TodoStore) Conn() *Conn {
	return s.conn
}

// Close closes the underlying database.
func (s *TodoStore) Close() error {
	return s.conn.Close()
}

// Add stores item and returns its id. An empty ID gets a fresh UUID; a
// supplied ID that is already taken fails with ErrDuplicateKey. A zero
// CreatedAt is stamped with the current time.
func (s *TodoStore) Add(ctx context.Context, item models.TodoItem) (string, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}

	db, err := s.conn.DB(ctx)
	if err != nil {
		return "", err
	}

	unlock := s.locks.Lock(item.ID)
	defer unlock()

	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.TodoItem{}).Where("id = ?", item.ID).Count(&count).Error; err != nil {
			return storageErr("add todo", err)
		}
		if count > 0 {
			return fmt.Errorf("todo %q: %w", item.ID, ErrDuplicateKey)
		}
		if err := tx.Create(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("todo %q: %w", item.ID, ErrDuplicateKey)
			}
			return storageErr("add todo", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.log.Debug("todo added", "id", item.ID, "date", item.Date, "type", item.Type)
	return item.ID, nil
}

// Update replaces the stored record with the same ID. CreatedAt keeps its
// original value. A missing record fails with ErrNotFound.
func (s *TodoStore) Update(ctx context.Context, item models.TodoItem) error {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(item.ID)
	defer unlock()

	err = db.Transaction(func(tx *gorm.DB) error {
		existing, err := findTodo(tx, item.ID)
		if err != nil {
			return err
		}
		item.CreatedAt = existing.CreatedAt
		if err := tx.Save(&item).Error; err != nil {
			return storageErr("update todo", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug("todo updated", "id", item.ID)
	return nil
}

// Delete removes the record permanently. Deleting a missing id is a no-op.
func (s *TodoStore) Delete(ctx context.Context, id string) error {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	res := db.Where("id = ?", id).Delete(&models.TodoItem{})
	if res.Error != nil {
		return storageErr("delete todo", res.Error)
	}
	s.log.Debug("todo deleted", "id", id, "rows", res.RowsAffected)
	return nil
}

// Get returns the todo with id, or nil when there is none.
func (s *TodoStore) Get(ctx context.Context, id string) (*models.TodoItem, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	item, err := findTodo(db, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// All returns every todo in insertion order.
func (s *TodoStore) All(ctx context.Context) ([]models.TodoItem, error) {
	return s.where(ctx, "list todos", "")
}

// ByDate returns the todos whose date equals date (YYYY-MM-DD).
func (s *TodoStore) ByDate(ctx context.Context, date string) ([]models.TodoItem, error) {
	return s.where(ctx, "todos by date", "date = ?", date)
}

// ByType returns the todos of the given type.
func (s *TodoStore) ByType(ctx context.Context, t models.TodoType) ([]models.TodoItem, error) {
	return s.where(ctx, "todos by type", "type = ?", t)
}

// ByCategory returns the todos in category.
func (s *TodoStore) ByCategory(ctx context.Context, category string) ([]models.TodoItem, error) {
	return s.where(ctx, "todos by category", "category = ?", category)
}

// ToggleCompletion flips the completed flag of id and returns the updated
// record. The read and the write happen in one transaction under the
// record's lock, so concurrent toggles never cancel out silently.
func (s *TodoStore) ToggleCompletion(ctx context.Context, id string) (*models.TodoItem, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	var toggled *models.TodoItem
	err = db.Transaction(func(tx *gorm.DB) error {
		item, err := findTodo(tx, id)
		if err != nil {
			return err
		}
		item.Completed = !item.Completed
		if err := tx.Model(item).Update("completed", item.Completed).Error; err != nil {
			return storageErr("toggle todo", err)
		}
		toggled = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("todo toggled", "id", id, "completed", toggled.Completed)
	return toggled, nil
}

// Search returns the todos matching every whitespace-separated term of
// query in title, description, category or a tag. A blank query returns
// every todo.
func (s *TodoStore) Search(ctx context.Context, query string) ([]models.TodoItem, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	m := newTermMatcher(query)
	if m.matchAll() {
		return all, nil
	}

	matches := make([]models.TodoItem, 0)
	for _, item := range all {
		if m.match(item.Tags, item.Title, item.Description, item.Category) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

func (s *TodoStore) where(ctx context.Context, op, query string, args ...any) ([]models.TodoItem, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	q := db.Order("rowid ASC")
	if query != "" {
		q = q.Where(query, args...)
	}

	items := make([]models.TodoItem, 0)
	if err := q.Find(&items).Error; err != nil {
		return nil, storageErr(op, err)
	}
	return items, nil
}

func findTodo(db *gorm.DB, id string) (*models.TodoItem, error) {
	var item models.TodoItem
	err := db.Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("todo %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("get todo", err)
	}
	return &item, nil
}
