// Package dogs é o adapter HTTP (chi) do serviço: traduz query/body para os casos
// de uso de application e os resultados para status e corpo da resposta.
//
// Rotas:
//
//	GET  /Ping  -> 200 "Dogs House service. Version x.y.z"
//	GET  /Dogs  -> 200 JSON [Dog]; query attribute, order, pageNumber, pageSize
//	POST /Dog   -> 200 "Created"; 400 com o motivo da recusa
//
// Toda falha vira 400 text/plain, inclusive falha do store (ver WithExposeStoreErrors).
package dogs
