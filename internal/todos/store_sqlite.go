package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS todos (
    id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at);
`

// SQLiteStore persists todos in a SQLite database file.
// Timestamps are stored as Unix nanoseconds.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteStore opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" alive.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply todos schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (Todo, error) {
	var (
		t                Todo
		completed        int
		created, updated int64
	)
	if err := row.Scan(&t.ID, &t.Text, &completed, &created, &updated); err != nil {
		return Todo{}, err
	}
	t.Completed = completed != 0
	t.CreatedAt = time.Unix(0, created).UTC()
	t.UpdatedAt = time.Unix(0, updated).UTC()
	return t, nil
}

// List returns all todos ordered by creation time
func (s *SQLiteStore) List(ctx context.Context) ([]Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, completed, created_at, updated_at FROM todos ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Get returns one todo
func (s *SQLiteStore) Get(ctx context.Context, id string) (Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, text, completed, created_at, updated_at FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Todo{}, ErrNotFound
	}
	if err != nil {
		return Todo{}, fmt.Errorf("failed to get todo: %w", err)
	}
	return t, nil
}

// Create adds a new, not yet completed todo
func (s *SQLiteStore) Create(ctx context.Context, text string) (Todo, error) {
	text, err := normalizeText(text)
	if err != nil {
		return Todo{}, err
	}

	now := s.now().UTC()
	t := Todo{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO todos (id, text, completed, created_at, updated_at) VALUES (?, ?, 0, ?, ?)`,
		t.ID, t.Text, now.UnixNano(), now.UnixNano())
	if err != nil {
		return Todo{}, fmt.Errorf("failed to insert todo: %w", err)
	}

	// Round-trip through the stored representation so callers see what Get returns.
	t.CreatedAt = time.Unix(0, now.UnixNano()).UTC()
	t.UpdatedAt = t.CreatedAt
	return t, nil
}

// Update applies a partial update inside a transaction
func (s *SQLiteStore) Update(ctx context.Context, id string, patch Patch) (Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Todo{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT id, text, completed, created_at, updated_at FROM todos WHERE id = ?`, id)
	current, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Todo{}, ErrNotFound
	}
	if err != nil {
		return Todo{}, fmt.Errorf("failed to load todo: %w", err)
	}

	updated, err := patch.apply(current, s.now().UTC())
	if err != nil {
		return Todo{}, err
	}
	updated.UpdatedAt = time.Unix(0, updated.UpdatedAt.UnixNano()).UTC()

	_, err = tx.ExecContext(ctx,
		`UPDATE todos SET text = ?, completed = ?, updated_at = ? WHERE id = ?`,
		updated.Text, boolToInt(updated.Completed), updated.UpdatedAt.UnixNano(), id)
	if err != nil {
		return Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Todo{}, fmt.Errorf("failed to commit todo update: %w", err)
	}
	return updated, nil
}

// Delete removes a todo
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
