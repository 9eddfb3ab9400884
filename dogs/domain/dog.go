package domain

import (
	"math"
	"strings"
)

// Dog é a única entidade do serviço.
//
// ID é atribuído pelo Record Store no Append e não é usado pelas regras de listagem/validação.
type Dog struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	TailLength float64 `json:"tailLength"`
	Weight     float64 `json:"weight"`
}

// Candidate é um pedido de criação ainda não validado.
//
// Os campos numéricos são ponteiros para distinguir "ausente" de zero.
type Candidate struct {
	Name       string   `json:"name"`
	Color      string   `json:"color"`
	TailLength *float64 `json:"tailLength"`
	Weight     *float64 `json:"weight"`
}

func finite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// WellFormed reporta se os campos obrigatórios estão presentes e são números finitos.
func (c Candidate) WellFormed() bool {
	if strings.TrimSpace(c.Name) == "" {
		return false
	}
	return finite(c.TailLength) && finite(c.Weight)
}
