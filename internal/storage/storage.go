// Package storage snapshots tasks into a local SQLite file so a session can
// pick up where the last one stopped. It is a best-effort mirror of the
// in-memory collection, not a durability guarantee.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"dontell/internal/task"
)

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// The durable unit is exactly the task record: id, text, category,
// created_at and the field map serialized as JSON.
func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	category TEXT NOT NULL,
	created_at TEXT NOT NULL,
	fields TEXT NOT NULL DEFAULT '{}'
);`
	_, err := s.db.Exec(ddl)
	return err
}

// LoadTasks returns the stored tasks in creation order. Task ids are UUIDv7,
// so lexicographic id order is creation order. Rows that fail to parse are
// skipped rather than failing the whole load.
func (s *Store) LoadTasks() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT id, text, category, created_at, fields FROM tasks ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var t task.Task
		var createdStr, fieldsJSON string
		if err := rows.Scan(&t.ID, &t.Text, &t.Category, &createdStr, &fieldsJSON); err != nil {
			return nil, err
		}
		created, err := time.Parse(time.RFC3339, createdStr)
		if err != nil {
			continue
		}
		t.CreatedAt = created
		if err := json.Unmarshal([]byte(fieldsJSON), &t.Fields); err != nil {
			continue
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTask inserts or replaces one task snapshot.
func (s *Store) SaveTask(t task.Task) error {
	fieldsJSON, err := json.Marshal(t.Fields)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO tasks (id, text, category, created_at, fields) VALUES (?, ?, ?, ?, ?);`,
		t.ID, t.Text, t.Category, t.CreatedAt.UTC().Format(time.RFC3339), string(fieldsJSON))
	return err
}

func (s *Store) DeleteTask(id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?;`, id)
	return err
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
