// Package domain define o registro Dog, os contratos do Record Store e os erros
// de validação e de armazenamento.
//
// Este pacote não depende de net/http nem de drivers de banco.
package domain
