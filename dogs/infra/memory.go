package infra

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"doghouse/dogs/domain"
)

// MemoryStore é uma implementação simples em memória.
//
// Não persiste nada; útil para testes e STORE_DRIVER=memory.
type MemoryStore struct {
	mu   sync.RWMutex
	dogs []domain.Dog
}

func NewMemoryStore(seed ...domain.Dog) *MemoryStore {
	s := &MemoryStore{}
	for _, d := range seed {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		s.dogs = append(s.dogs, d)
	}
	return s
}

func (s *MemoryStore) GetAll(_ context.Context) ([]domain.Dog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.dogs), nil
}

func (s *MemoryStore) Append(_ context.Context, dog domain.Dog) (domain.Dog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.dogs {
		if strings.EqualFold(d.Name, dog.Name) {
			return domain.Dog{}, fmt.Errorf("append %q: %w", dog.Name, domain.ErrNameTaken)
		}
	}
	dog.ID = uuid.NewString()
	s.dogs = append(s.dogs, dog)
	return dog, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
