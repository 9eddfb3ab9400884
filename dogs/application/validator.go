package application

import (
	"strings"

	"doghouse/dogs/domain"
)

// ValidateAndBuild decide se o candidato pode ser inserido, na ordem:
// formato, nome duplicado, peso, comprimento da cauda. A primeira falha vence.
//
// Retorna um Dog sem ID (o store atribui) ou um *domain.Rejection.
func ValidateAndBuild(c domain.Candidate, existing []domain.Dog) (domain.Dog, error) {
	if !c.WellFormed() {
		return domain.Dog{}, &domain.Rejection{Reason: domain.ReasonMalformedRequest}
	}
	if nameTaken(c.Name, existing) {
		return domain.Dog{}, &domain.Rejection{Reason: domain.ReasonDuplicateName, Name: c.Name}
	}
	if *c.Weight <= 0 {
		return domain.Dog{}, &domain.Rejection{Reason: domain.ReasonInvalidWeight}
	}
	if *c.TailLength <= 0 {
		return domain.Dog{}, &domain.Rejection{Reason: domain.ReasonInvalidTailLength}
	}

	return domain.Dog{
		Name:       c.Name,
		Color:      c.Color,
		TailLength: *c.TailLength,
		Weight:     *c.Weight,
	}, nil
}

func nameTaken(name string, dogs []domain.Dog) bool {
	for _, d := range dogs {
		if strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}
