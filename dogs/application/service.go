package application

import (
	"context"
	"errors"

	"doghouse/dogs/domain"
)

// Service combina o Record Store com o pipeline de listagem e o validador.
//
// Cada chamada faz no máximo um GetAll e um Append; não há retry nem cache.
// A checagem de nome e o Append não são atômicos: a unicidade final depende do store
// (ver ErrNameTaken).
type Service struct {
	Store domain.DogStore
}

func NewService(store domain.DogStore) Service {
	return Service{Store: store}
}

func (s Service) ListDogs(ctx context.Context, p ListParams) ([]domain.Dog, error) {
	dogs, err := s.Store.GetAll(ctx)
	if err != nil {
		return nil, &domain.StoreFailure{Op: "get all", Err: err}
	}
	return List(dogs, p), nil
}

// NameExists compara sem diferenciar maiúsculas.
func (s Service) NameExists(ctx context.Context, name string) (bool, error) {
	dogs, err := s.Store.GetAll(ctx)
	if err != nil {
		return false, &domain.StoreFailure{Op: "get all", Err: err}
	}
	return nameTaken(name, dogs), nil
}

func (s Service) CreateDog(ctx context.Context, c domain.Candidate) (domain.Dog, error) {
	dogs, err := s.Store.GetAll(ctx)
	if err != nil {
		return domain.Dog{}, &domain.StoreFailure{Op: "get all", Err: err}
	}

	dog, err := ValidateAndBuild(c, dogs)
	if err != nil {
		return domain.Dog{}, err
	}

	saved, err := s.Store.Append(ctx, dog)
	if errors.Is(err, domain.ErrNameTaken) {
		// outra requisição inseriu o mesmo nome entre o GetAll e o Append
		return domain.Dog{}, &domain.Rejection{Reason: domain.ReasonDuplicateName, Name: c.Name}
	}
	if err != nil {
		return domain.Dog{}, &domain.StoreFailure{Op: "append", Err: err}
	}
	return saved, nil
}
