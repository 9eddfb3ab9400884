package application

import (
	"slices"

	"doghouse/dogs/domain"
)

// ListParams são os parâmetros opcionais da listagem.
// Valores nil ou vazios desligam a etapa correspondente.
type ListParams struct {
	Attribute  string
	Order      string
	PageNumber *int
	PageSize   *int
}

// List ordena (se pedido) e depois pagina (se pedido) uma cópia de dogs.
//
// Nunca falha: atributo desconhecido não ordena; paginação inválida devolve a lista inteira;
// página fora do intervalo devolve lista vazia.
func List(dogs []domain.Dog, p ListParams) []domain.Dog {
	out := slices.Clone(dogs)
	if out == nil {
		out = []domain.Dog{}
	}

	if p.Attribute != "" && p.Order != "" {
		if attr, ok := domain.ParseAttribute(p.Attribute); ok {
			sortDogs(out, attr, domain.ParseOrder(p.Order))
		}
	}

	if p.PageNumber != nil && p.PageSize != nil && *p.PageNumber >= 1 && *p.PageSize > 0 {
		out = page(out, *p.PageNumber, *p.PageSize)
	}
	return out
}

// sortDogs é estável: empates mantêm a ordem relativa também em desc.
func sortDogs(dogs []domain.Dog, attr domain.Attribute, order domain.Order) {
	slices.SortStableFunc(dogs, func(a, b domain.Dog) int {
		if order == domain.OrderDesc {
			return attr.Compare(b, a)
		}
		return attr.Compare(a, b)
	})
}

func page(dogs []domain.Dog, number, size int) []domain.Dog {
	// number-1 <= len/size garante que (number-1)*size não estoura int.
	if number-1 > len(dogs)/size {
		return []domain.Dog{}
	}
	start := min((number-1)*size, len(dogs))
	end := start + min(size, len(dogs)-start)
	return dogs[start:end]
}
