// Package infra contém implementações concretas do domain.DogStore.
//
// Exemplos:
//   - MemoryStore: slice em memória protegido por mutex (testes e desenvolvimento)
//   - SQLiteStore: banco embarcado usando modernc.org/sqlite (sem cgo)
//   - PostgresStore: pgxpool
//
// Todos atribuem o ID (UUID) no Append e recusam nomes repetidos sem diferenciar
// maiúsculas, retornando domain.ErrNameTaken.
package infra
