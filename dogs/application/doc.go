// Package application contém os casos de uso de dogs: o pipeline de listagem
// (ordenação + paginação), o validador de criação e o Service que os combina
// com o Record Store.
//
// Depende apenas do pacote domain e não conhece net/http.
package application
