package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// TodoDBName is the name of the store holding the todo list.
	TodoDBName = "todo-app-db"
	// TaskHistoryDBName is the name of the store holding tasks, categories and sessions.
	TaskHistoryDBName = "task-history-db"
	// SchemaVersion is the layout version written to every store.
	SchemaVersion = 1
)

// Config controls where the stores live and how chatty they are.
type Config struct {
	// Dir holds one SQLite file per store.
	Dir string
	// Verbose turns on gorm's SQL logging.
	Verbose bool
	// Logger receives store-level debug logs. Nil discards them.
	Logger *slog.Logger
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Conn is a lazily opened handle on one named store. The first call to DB
// opens the file and runs migrations; concurrent first calls share that
// single initialisation.
type Conn struct {
	name   string
	cfg    Config
	schema []any
	log    *slog.Logger
	mu     sync.Mutex
	db     *gorm.DB
}

func newConn(name string, cfg Config, schema ...any) *Conn {
	return &Conn{
		name:   name,
		cfg:    cfg,
		schema: schema,
		log:    cfg.logger().With("store", name),
	}
}

// Name returns the store name, e.g. "todo-app-db".
func (c *Conn) Name() string {
	return c.name
}

// Path returns the SQLite file backing the store.
func (c *Conn) Path() string {
	return filepath.Join(c.cfg.Dir, c.name+".sqlite")
}

// DB returns the open connection bound to ctx, opening it on first use.
// A failed open is not cached: the next call tries again.
func (c *Conn) DB(ctx context.Context) (*gorm.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		db, err := c.open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w: %w", c.name, ErrStorageUnavailable, err)
		}
		c.db = db
	}
	return c.db.WithContext(ctx), nil
}

// open sets up the database connection and runs migrations
func (c *Conn) open() (*gorm.DB, error) {
	if err := os.MkdirAll(c.cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logMode := logger.Silent
	if c.cfg.Verbose {
		logMode = logger.Info
	}

	dsn := c.Path() + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One connection: SQLite serialises writers anyway, and transactions
	// then exclude every other statement on the store.
	sqlDB.SetMaxOpenConns(1)

	if err := c.migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	c.log.Debug("store opened", "path", c.Path(), "schema_version", SchemaVersion)
	return db, nil
}

// migrate creates the schema and stamps the layout version. A file written
// by a newer layout is refused rather than downgraded.
func (c *Conn) migrate(db *gorm.DB) error {
	var version int
	if err := db.Raw("PRAGMA user_version").Scan(&version).Error; err != nil {
		return err
	}
	if version > SchemaVersion {
		return fmt.Errorf("%s has schema version %d, this build supports %d", c.name, version, SchemaVersion)
	}

	if err := db.AutoMigrate(c.schema...); err != nil {
		return err
	}

	if version < SchemaVersion {
		if err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)).Error; err != nil {
			return err
		}
	}
	return nil
}

// SchemaVersion reports the layout version stored in the file.
func (c *Conn) SchemaVersion(ctx context.Context) (int, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return 0, err
	}
	var version int
	if err := db.Raw("PRAGMA user_version").Scan(&version).Error; err != nil {
		return 0, storageErr("read schema version", err)
	}
	return version, nil
}

// Close closes the connection if it was ever opened.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	c.db = nil
	return sqlDB.Close()
}

// Stores bundles both stores. Build it once at start-up and pass it to
// whatever needs persistence.
type Stores struct {
	Todos *TodoStore
	Tasks *TaskHistoryStore
}

// New prepares both stores under cfg.Dir. Nothing touches disk until the
// first operation.
func New(cfg Config) *Stores {
	return &Stores{
		Todos: NewTodoStore(cfg),
		Tasks: NewTaskHistoryStore(cfg),
	}
}

// Close closes both stores.
func (s *Stores) Close() error {
	todoErr := s.Todos.Close()
	taskErr := s.Tasks.Close()
	if todoErr != nil {
		return todoErr
	}
	return taskErr
}
