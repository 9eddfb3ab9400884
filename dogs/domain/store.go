package domain

import "context"

// DogStore é o Record Store consumido pela camada application.
//
// GetAll devolve todos os registros na ordem de inserção.
// Append persiste um registro novo, atribui o ID e devolve o registro salvo.
// Stores que garantem unicidade do nome retornam ErrNameTaken (wrapped) em colisão.
type DogStore interface {
	GetAll(ctx context.Context) ([]Dog, error)
	Append(ctx context.Context, dog Dog) (Dog, error)
}
