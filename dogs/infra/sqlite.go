package infra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"doghouse/dogs/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS dogs (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	color       TEXT NOT NULL DEFAULT '',
	tail_length REAL NOT NULL,
	weight      REAL NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS dogs_name_lower_idx ON dogs (lower(name));
`

// SQLiteStore persiste dogs numa tabela SQLite. A ordem de GetAll é a de inserção (seq).
//
// lower() do SQLite só trata ASCII; a checagem do validador continua cobrindo o resto.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "doghouse.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// um único writer evita SQLITE_BUSY entre conexões do pool
	db.SetMaxOpenConns(1)
	return &SQLiteStore{db: db}, nil
}

// Migrate cria a tabela e o índice único se ainda não existirem.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("migrate sqlite: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]domain.Dog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, tail_length, weight FROM dogs ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select dogs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	dogs := []domain.Dog{}
	for rows.Next() {
		var d domain.Dog
		if err := rows.Scan(&d.ID, &d.Name, &d.Color, &d.TailLength, &d.Weight); err != nil {
			return nil, fmt.Errorf("scan dog: %w", err)
		}
		dogs = append(dogs, d)
	}
	return dogs, rows.Err()
}

func (s *SQLiteStore) Append(ctx context.Context, dog domain.Dog) (domain.Dog, error) {
	dog.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dogs (id, name, color, tail_length, weight) VALUES (?, ?, ?, ?, ?)`,
		dog.ID, dog.Name, dog.Color, dog.TailLength, dog.Weight,
	)
	if isSQLiteUniqueViolation(err) {
		return domain.Dog{}, fmt.Errorf("insert dog %q: %w", dog.Name, domain.ErrNameTaken)
	}
	if err != nil {
		return domain.Dog{}, fmt.Errorf("insert dog: %w", err)
	}
	return dog, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLiteStore) Close() error { return s.db.Close() }

func isSQLiteUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
