package main

import (
	"context"
	"fmt"

	"doghouse/dogs/domain"
	"doghouse/dogs/infra"
)

type recordStore interface {
	domain.DogStore
	Ping(ctx context.Context) error
	Close() error
}

type migrator interface {
	Migrate(ctx context.Context) error
}

func openStore(ctx context.Context, cfg config) (recordStore, error) {
	switch cfg.storeDriver {
	case "memory":
		return infra.NewMemoryStore(), nil
	case "postgres":
		s, err := infra.OpenPostgres(ctx, cfg.databaseURL, int32(cfg.dbMaxConns))
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := infra.OpenSQLite(cfg.sqlitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.storeDriver)
}

// migrate cria o schema quando o store precisa; o memory store não precisa.
func migrate(ctx context.Context, store recordStore) error {
	if m, ok := store.(migrator); ok {
		return m.Migrate(ctx)
	}
	return nil
}
