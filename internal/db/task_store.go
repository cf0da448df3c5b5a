package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/daybook/internal/models"
)

// TaskHistoryStore persists calendar tasks, their tracked sessions and the
// category palette in "task-history-db".
type TaskHistoryStore struct {
	conn  *Conn
	locks keyedMutex
	log   *slog.Logger
	now   func() time.Time
}

// NewTaskHistoryStore prepares a task history store under cfg.Dir.
func NewTaskHistoryStore(cfg Config) *TaskHistoryStore {
	conn := newConn(TaskHistoryDBName, cfg, &models.TaskRecord{}, &models.Session{}, &models.Category{})
	return &TaskHistoryStore{
		conn: conn,
		log:  conn.log,
		now:  time.Now,
	}
}

// Conn exposes the underlying connection handle.
func (s *TaskHistoryStore) Conn() *Conn {
	return s.conn
}

// Close closes the underlying database.
func (s *TaskHistoryStore) Close() error {
	return s.conn.Close()
}

// AddTask stores a new task with a generated id and returns that id.
// Sessions passed in NewTask.TimeTracking are stored with it.
func (s *TaskHistoryStore) AddTask(ctx context.Context, in models.NewTask) (string, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return "", err
	}

	task := in.Record(uuid.NewString(), s.now())
	for i := range task.TimeTracking {
		task.TimeTracking[i].ID = 0
		task.TimeTracking[i].TaskID = task.ID
	}

	if err := db.Create(&task).Error; err != nil {
		return "", storageErr("add task", err)
	}

	s.log.Debug("task added", "id", task.ID, "date", task.Date, "category", task.Category)
	return task.ID, nil
}

// Task returns the task with its sessions in append order.
func (s *TaskHistoryStore) Task(ctx context.Context, id string) (*models.TaskRecord, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	return findTask(db, id, true)
}

// UpdateTask merges the set fields of update into the task and refreshes
// UpdatedAt. A missing task fails with ErrNotFound.
func (s *TaskHistoryStore) UpdateTask(ctx context.Context, id string, update models.TaskUpdate) error {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	err = db.Transaction(func(tx *gorm.DB) error {
		task, err := findTask(tx, id, false)
		if err != nil {
			return err
		}
		update.Apply(task)
		task.UpdatedAt = s.now()
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return storageErr("update task", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug("task updated", "id", id)
	return nil
}

// DeleteTask removes the task and its sessions. A missing id is a no-op.
func (s *TaskHistoryStore) DeleteTask(ctx context.Context, id string) error {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return storageErr("delete sessions", err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.TaskRecord{}).Error; err != nil {
			return storageErr("delete task", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug("task deleted", "id", id)
	return nil
}

// TasksByDateRange returns the tasks dated within [start, end], both ends
// included, ordered by date. Bounds and ordering are evaluated in Go over a full
// scan so dates stored with different zone offsets compare as instants.
func (s *TaskHistoryStore) TasksByDateRange(ctx context.Context, start, end time.Time) ([]models.TaskRecord, error) {
	tasks, err := s.tasks(ctx, "tasks by date", "rowid ASC", "")
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(tasks, func(a, b models.TaskRecord) int {
		return a.Date.Compare(b.Date)
	})

	inRange := make([]models.TaskRecord, 0, len(tasks))
	for _, t := range tasks {
		if !t.Date.Before(start) && !t.Date.After(end) {
			inRange = append(inRange, t)
		}
	}
	return inRange, nil
}

// TasksByCategory returns the tasks whose category equals category.
func (s *TaskHistoryStore) TasksByCategory(ctx context.Context, category string) ([]models.TaskRecord, error) {
	return s.tasks(ctx, "tasks by category", "rowid ASC", "category = ?", category)
}

// AllTasks returns every task in insertion order.
func (s *TaskHistoryStore) AllTasks(ctx context.Context) ([]models.TaskRecord, error) {
	return s.tasks(ctx, "list tasks", "rowid ASC", "")
}

// SearchTasks returns the tasks matching every whitespace-separated term of
// query in title, description, notes or a tag. Category is not searched.
// A blank query returns every task.
func (s *TaskHistoryStore) SearchTasks(ctx context.Context, query string) ([]models.TaskRecord, error) {
	all, err := s.AllTasks(ctx)
	if err != nil {
		return nil, err
	}

	m := newTermMatcher(query)
	if m.matchAll() {
		return all, nil
	}

	matches := make([]models.TaskRecord, 0)
	for _, t := range all {
		if m.match(t.Tags, t.Title, t.Description, t.Notes) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

// AddCategory stores a new category with a generated id and returns it.
func (s *TaskHistoryStore) AddCategory(ctx context.Context, in models.NewCategory) (string, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return "", err
	}

	now := s.now()
	category := models.Category{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Color:     in.Color,
		Icon:      in.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&category).Error; err != nil {
		return "", storageErr("add category", err)
	}

	s.log.Debug("category added", "id", category.ID, "name", category.Name)
	return category.ID, nil
}

// Categories returns every category in insertion order.
func (s *TaskHistoryStore) Categories(ctx context.Context) ([]models.Category, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0)
	if err := db.Order("rowid ASC").Find(&categories).Error; err != nil {
		return nil, storageErr("list categories", err)
	}
	return categories, nil
}

// TaskHistory returns the task's sessions in the order they were recorded.
// Unlike UpdateTask this is lenient: a missing task yields an empty history
// and no error. Only storage failures are reported.
func (s *TaskHistoryStore) TaskHistory(ctx context.Context, taskID string) ([]models.Session, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	sessions := make([]models.Session, 0)
	if err := db.Where("task_id = ?", taskID).Order("id ASC").Find(&sessions).Error; err != nil {
		return nil, storageErr("task history", err)
	}
	return sessions, nil
}

// AddTimeTrackingEntry appends session to the task's history and refreshes
// UpdatedAt. Existing sessions are never rewritten. A missing task fails
// with ErrNotFound.
func (s *TaskHistoryStore) AddTimeTrackingEntry(ctx context.Context, taskID string, session models.Session) error {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(taskID)
	defer unlock()

	session.ID = 0
	session.TaskID = taskID

	err = db.Transaction(func(tx *gorm.DB) error {
		task, err := findTask(tx, taskID, false)
		if err != nil {
			return err
		}
		if err := tx.Create(&session).Error; err != nil {
			return storageErr("add session", err)
		}
		if err := tx.Model(task).Update("updated_at", s.now()).Error; err != nil {
			return storageErr("touch task", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug("session recorded", "task", taskID, "duration", session.Duration(), "breaks", len(session.Breaks))
	return nil
}

func (s *TaskHistoryStore) tasks(ctx context.Context, op, order, query string, args ...any) ([]models.TaskRecord, error) {
	db, err := s.conn.DB(ctx)
	if err != nil {
		return nil, err
	}

	q := db.Preload("TimeTracking", func(db *gorm.DB) *gorm.DB {
		return db.Order("sessions.id ASC")
	}).Order(order)
	if query != "" {
		q = q.Where(query, args...)
	}

	tasks := make([]models.TaskRecord, 0)
	if err := q.Find(&tasks).Error; err != nil {
		return nil, storageErr(op, err)
	}
	return tasks, nil
}

func findTask(db *gorm.DB, id string, withSessions bool) (*models.TaskRecord, error) {
	q := db
	if withSessions {
		q = q.Preload("TimeTracking", func(db *gorm.DB) *gorm.DB {
			return db.Order("sessions.id ASC")
		})
	}

	var task models.TaskRecord
	err := q.Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("get task", err)
	}
	return &task, nil
}
