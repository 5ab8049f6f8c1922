package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/aurvo/internal/model"
)

// sqliteTime is the layout produced by datetime('now').
const sqliteTime = "2006-01-02 15:04:05"

// ErrInsightNotFound is returned when a key has no row.
var ErrInsightNotFound = errors.New("insight not found")

// Store maps modules to their SQLite files.
type Store struct {
	resolver Resolver
}

// New creates a Store resolving modules through r.
func New(r Resolver) *Store {
	return &Store{resolver: r}
}

// DatabasePath returns <data_dir>/<slug>.db for a module.
func (s *Store) DatabasePath(m model.ModuleDefinition) (string, error) {
	settings, err := s.resolver.Settings()
	if err != nil {
		return "", err
	}
	return filepath.Join(settings.DataDir, m.Slug+".db"), nil
}

// Connect opens the database of the module identified by slug, runs fn,
// and closes the connection on every exit path. Unknown slugs fail with
// the resolver's not-found error before any file is touched.
func (s *Store) Connect(ctx context.Context, slug string, fn func(c *Conn) error) (err error) {
	m, err := s.resolver.Module(slug)
	if err != nil {
		return err
	}
	path, err := s.DatabasePath(m)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close db: %w", cerr)
		}
	}()

	return fn(&Conn{db: db, path: path})
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection per call; nothing is pooled across requests.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}
	return db, nil
}

// BootstrapAll creates the database file and schema of every module.
func (s *Store) BootstrapAll(ctx context.Context) error {
	modules, err := s.resolver.List()
	if err != nil {
		return err
	}
	for _, m := range modules {
		path, err := s.DatabasePath(m)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
		err = s.Connect(ctx, m.Slug, func(c *Conn) error {
			return c.InitialiseSchema(ctx)
		})
		if err != nil {
			return fmt.Errorf("bootstrap %s: %w", m.Slug, err)
		}
	}
	return nil
}

// Seed upserts records into a module in one transaction.
func (s *Store) Seed(ctx context.Context, slug string, records []Record) error {
	return s.Connect(ctx, slug, func(c *Conn) error {
		if err := c.InitialiseSchema(ctx); err != nil {
			return err
		}
		return c.inTx(ctx, func(q querier) error {
			for _, r := range records {
				if err := upsert(ctx, q, r.Key, r.Value); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// Conn is an open connection to one module database.
type Conn struct {
	db   *sql.DB
	path string
}

// Path returns the database file path.
func (c *Conn) Path() string { return c.path }

// InitialiseSchema creates the insight table if it does not exist.
func (c *Conn) InitialiseSchema(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS `+TableName+` (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		key        TEXT NOT NULL UNIQUE,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("initialise schema: %w", err)
	}
	return nil
}

// Upsert inserts key or, when it already exists, overwrites its value and
// refreshes updated_at. It is a single statement.
func (c *Conn) Upsert(ctx context.Context, key, value string) error {
	return upsert(ctx, c.db, key, value)
}

// Put upserts key and returns the stored row.
func (c *Conn) Put(ctx context.Context, key, value string) (*model.Insight, error) {
	var in *model.Insight
	err := c.inTx(ctx, func(q querier) error {
		if err := upsert(ctx, q, key, value); err != nil {
			return err
		}
		var err error
		in, err = getInsight(ctx, q, key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return in, nil
}

// Insight returns a single row by key.
func (c *Conn) Insight(ctx context.Context, key string) (*model.Insight, error) {
	return getInsight(ctx, c.db, key)
}

// Insights returns every row ordered by key.
func (c *Conn) Insights(ctx context.Context) ([]model.Insight, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT key, value, updated_at FROM `+TableName+` ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	insights := []model.Insight{}
	for rows.Next() {
		in, err := scanInsight(rows)
		if err != nil {
			return nil, err
		}
		insights = append(insights, in)
	}
	return insights, rows.Err()
}

// Count returns the number of rows.
func (c *Conn) Count(ctx context.Context) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+TableName).Scan(&n)
	return n, err
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (c *Conn) inTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func upsert(ctx context.Context, q querier, key, value string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO `+TableName+` (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		     value = excluded.value,
		     updated_at = datetime('now')`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert %q: %w", key, err)
	}
	return nil
}

func getInsight(ctx context.Context, q querier, key string) (*model.Insight, error) {
	row := q.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM `+TableName+` WHERE key = ?`, key)
	in, err := scanInsight(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrInsightNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInsight(row scanner) (model.Insight, error) {
	var in model.Insight
	var updatedAt string
	if err := row.Scan(&in.Key, &in.Value, &updatedAt); err != nil {
		return in, err
	}
	t, err := time.ParseInLocation(sqliteTime, updatedAt, time.UTC)
	if err != nil {
		return in, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	in.UpdatedAt = t
	return in, nil
}
