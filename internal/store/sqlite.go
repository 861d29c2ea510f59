package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLite is the durable engine. Each table stores the encoded record as a
// blob next to one column per declared index field, so equality and prefix
// lookups run against real indexes rather than full decodes.
type SQLite struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

var identRx = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// OpenSQLite opens (creating if needed) the store file at path.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	return &SQLite{db: db}, nil
}

func ident(name string) (string, error) {
	if !identRx.MatchString(name) {
		return "", fmt.Errorf("store: invalid identifier %q", name)
	}
	return name, nil
}

func idxCol(field string) string { return "idx_" + field }

func (s *SQLite) guard() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *SQLite) CreateTable(ctx context.Context, schema Schema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guard(); err != nil {
		return err
	}
	name, err := ident(schema.Name)
	if err != nil {
		return err
	}
	cols := []string{"id INTEGER PRIMARY KEY AUTOINCREMENT", "data BLOB NOT NULL"}
	for _, f := range schema.Indexes {
		if _, err := ident(f); err != nil {
			return err
		}
		cols = append(cols, idxCol(f)+" TEXT")
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", name, strings.Join(cols, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	for _, f := range schema.Indexes {
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS ix_%s_%s ON %s (%s)", name, f, name, idxCol(f))
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index on %s.%s: %w", name, f, err)
		}
	}
	return nil
}

func (s *SQLite) indexAssignments(idx map[string]string) (cols []string, args []interface{}) {
	// Deterministic order keeps statements stable.
	fields := make([]string, 0, len(idx))
	for f := range idx {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		cols = append(cols, idxCol(f))
		args = append(args, idx[f])
	}
	return cols, args
}

func (s *SQLite) Insert(ctx context.Context, table string, data []byte, idx map[string]string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(); err != nil {
		return 0, err
	}
	name, err := ident(table)
	if err != nil {
		return 0, err
	}
	cols, args := s.indexAssignments(idx)
	colNames := append([]string{"data"}, cols...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(colNames)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(colNames, ", "), placeholders)
	res, err := s.db.ExecContext(ctx, stmt, append([]interface{}{data}, args...)...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLite) Get(ctx context.Context, table string, id int64) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(); err != nil {
		return nil, false, err
	}
	name, err := ident(table)
	if err != nil {
		return nil, false, err
	}
	var data []byte
	err = s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT data FROM %s WHERE id = ?", name), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *SQLite) Update(ctx context.Context, table string, id int64, data []byte, idx map[string]string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(); err != nil {
		return false, err
	}
	name, err := ident(table)
	if err != nil {
		return false, err
	}
	cols, args := s.indexAssignments(idx)
	sets := []string{"data = ?"}
	for _, c := range cols {
		sets = append(sets, c+" = ?")
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", name, strings.Join(sets, ", "))
	all := append([]interface{}{data}, args...)
	all = append(all, id)
	res, err := s.db.ExecContext(ctx, stmt, all...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLite) Delete(ctx context.Context, table string, id int64) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(); err != nil {
		return err
	}
	name, err := ident(table)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", name), id)
	return err
}

func (s *SQLite) All(ctx context.Context, table string) ([]Raw, error) {
	name, err := ident(table)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, fmt.Sprintf("SELECT id, data FROM %s ORDER BY id", name))
}

func (s *SQLite) Equals(ctx context.Context, table, field, value string) ([]Raw, error) {
	name, err := ident(table)
	if err != nil {
		return nil, err
	}
	if _, err := ident(field); err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf("SELECT id, data FROM %s WHERE %s = ? ORDER BY id", name, idxCol(field))
	return s.query(ctx, stmt, value)
}

func (s *SQLite) PrefixFold(ctx context.Context, table, field, prefix string) ([]Raw, error) {
	name, err := ident(table)
	if err != nil {
		return nil, err
	}
	if _, err := ident(field); err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf(
		"SELECT id, data FROM %s WHERE lower(%s) LIKE lower(?) ESCAPE '\\' ORDER BY id",
		name, idxCol(field))
	return s.query(ctx, stmt, escapeLike(prefix)+"%")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (s *SQLite) query(ctx context.Context, stmt string, args ...interface{}) ([]Raw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.guard(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Raw
	for rows.Next() {
		var r Raw
		if err := rows.Scan(&r.ID, &r.Data); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
