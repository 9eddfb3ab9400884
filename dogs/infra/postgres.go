package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"doghouse/dogs/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS dogs (
	seq         BIGSERIAL PRIMARY KEY,
	id          UUID NOT NULL UNIQUE,
	name        TEXT NOT NULL,
	color       TEXT NOT NULL DEFAULT '',
	tail_length DOUBLE PRECISION NOT NULL CHECK (tail_length > 0),
	weight      DOUBLE PRECISION NOT NULL CHECK (weight > 0)
);
CREATE UNIQUE INDEX IF NOT EXISTS dogs_name_lower_idx ON dogs (lower(name));
`

const pgUniqueViolation = "23505"

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres cria o pool a partir de uma URL e confere a conexão com Ping.
func OpenPostgres(ctx context.Context, url string, maxConns int32) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresStore(pool), nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("migrate postgres: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]domain.Dog, error) {
	const query = `
		SELECT id::text, name, color, tail_length, weight
		FROM dogs
		ORDER BY seq
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select dogs: %w", err)
	}
	defer rows.Close()

	dogs := []domain.Dog{}
	for rows.Next() {
		var d domain.Dog
		if err := rows.Scan(&d.ID, &d.Name, &d.Color, &d.TailLength, &d.Weight); err != nil {
			return nil, fmt.Errorf("scan dog: %w", err)
		}
		dogs = append(dogs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select dogs: %w", err)
	}
	return dogs, nil
}

func (s *PostgresStore) Append(ctx context.Context, dog domain.Dog) (domain.Dog, error) {
	const query = `
		INSERT INTO dogs (id, name, color, tail_length, weight)
		VALUES ($1, $2, $3, $4, $5)
	`

	dog.ID = uuid.NewString()
	_, err := s.pool.Exec(ctx, query, dog.ID, dog.Name, dog.Color, dog.TailLength, dog.Weight)
	if isPgUniqueViolation(err) {
		return domain.Dog{}, fmt.Errorf("insert dog %q: %w", dog.Name, domain.ErrNameTaken)
	}
	if err != nil {
		return domain.Dog{}, fmt.Errorf("insert dog: %w", err)
	}
	return dog, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
