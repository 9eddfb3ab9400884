package dogs

import (
	"net/url"
	"strconv"
	"strings"

	"doghouse/dogs/application"
)

// queryValue busca a chave sem diferenciar maiúsculas (pageSize, pagesize, PAGESIZE).
func queryValue(q url.Values, key string) string {
	if v, ok := q[key]; ok && len(v) > 0 {
		return v[0]
	}
	for k, v := range q {
		if strings.EqualFold(k, key) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// queryInt devolve nil quando a chave falta ou não é inteiro; a listagem trata como ausente.
func queryInt(q url.Values, key string) *int {
	s := strings.TrimSpace(queryValue(q, key))
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func listParams(q url.Values) application.ListParams {
	return application.ListParams{
		Attribute:  queryValue(q, "attribute"),
		Order:      queryValue(q, "order"),
		PageNumber: queryInt(q, "pageNumber"),
		PageSize:   queryInt(q, "pageSize"),
	}
}
