package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRejected casa (errors.Is) com qualquer *Rejection.
	ErrRejected = errors.New("dog rejected")

	// ErrNameTaken é retornado pelo store quando ele mesmo garante unicidade do nome.
	ErrNameTaken = errors.New("dog name already taken")
)

type Reason int

const (
	ReasonMalformedRequest Reason = iota + 1
	ReasonDuplicateName
	ReasonInvalidWeight
	ReasonInvalidTailLength
)

func (r Reason) String() string {
	switch r {
	case ReasonMalformedRequest:
		return "malformed_request"
	case ReasonDuplicateName:
		return "duplicate_name"
	case ReasonInvalidWeight:
		return "invalid_weight"
	case ReasonInvalidTailLength:
		return "invalid_tail_length"
	}
	return "unknown"
}

// Rejection é a recusa de um Candidate pelo validador.
// Name só é preenchido para ReasonDuplicateName.
type Rejection struct {
	Reason Reason
	Name   string
}

func (r *Rejection) Error() string {
	if r.Reason == ReasonDuplicateName {
		return fmt.Sprintf("dog rejected: %s %q", r.Reason, r.Name)
	}
	return "dog rejected: " + r.Reason.String()
}

func (r *Rejection) Is(target error) bool { return target == ErrRejected }

// Message é o texto devolvido ao cliente.
func (r *Rejection) Message() string {
	switch r.Reason {
	case ReasonDuplicateName:
		return fmt.Sprintf("Dog with name %s is already exist!", r.Name)
	case ReasonInvalidWeight:
		return "Weight is not valid"
	case ReasonInvalidTailLength:
		return "Tail length is not valid"
	}
	return "Request model is not valid"
}

// StoreFailure envolve qualquer erro vindo do Record Store.
// Não há distinção entre falha transitória e permanente.
type StoreFailure struct {
	Op  string
	Err error
}

func (f *StoreFailure) Error() string { return "store " + f.Op + ": " + f.Err.Error() }

func (f *StoreFailure) Unwrap() error { return f.Err }
