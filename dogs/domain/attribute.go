package domain

import (
	"cmp"
	"strings"
)

// Attribute é o conjunto fechado de campos pelos quais a listagem pode ordenar.
type Attribute int

const (
	AttributeName Attribute = iota + 1
	AttributeColor
	AttributeTailLength
	AttributeWeight
)

var attributeByName = map[string]Attribute{
	"name":       AttributeName,
	"color":      AttributeColor,
	"taillength": AttributeTailLength,
	"weight":     AttributeWeight,
}

// ParseAttribute aceita name, color, taillength e weight sem diferenciar maiúsculas.
// Qualquer outro valor retorna ok=false.
func ParseAttribute(s string) (Attribute, bool) {
	a, ok := attributeByName[strings.ToLower(s)]
	return a, ok
}

func (a Attribute) String() string {
	switch a {
	case AttributeName:
		return "name"
	case AttributeColor:
		return "color"
	case AttributeTailLength:
		return "taillength"
	case AttributeWeight:
		return "weight"
	}
	return "unknown"
}

// Compare compara dois registros pelo campo do atributo.
// Strings usam ordem ordinal (sensível a maiúsculas); números, ordem numérica.
func (a Attribute) Compare(x, y Dog) int {
	switch a {
	case AttributeName:
		return strings.Compare(x.Name, y.Name)
	case AttributeColor:
		return strings.Compare(x.Color, y.Color)
	case AttributeTailLength:
		return cmp.Compare(x.TailLength, y.TailLength)
	case AttributeWeight:
		return cmp.Compare(x.Weight, y.Weight)
	}
	return 0
}

type Order int

const (
	OrderAsc Order = iota
	OrderDesc
)

// ParseOrder retorna OrderDesc apenas para o literal "desc".
func ParseOrder(s string) Order {
	if s == "desc" {
		return OrderDesc
	}
	return OrderAsc
}
