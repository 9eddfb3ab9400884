// Package ratelimit fornece middlewares net/http para limitar requisições por cliente
// e o número de requisições simultâneas na API de dogs.
//
// Visão geral:
//
//   - LimiterStore: token bucket por chave (golang.org/x/time/rate) com limpeza de chaves ociosas
//   - KeyFunc: extração da chave do cliente (header, X-Forwarded-For ou RemoteAddr)
//   - Middleware: responde 429 + Retry-After quando o bucket da chave está vazio
//   - Concurrency: semáforo com timeout de aquisição, responde 503 quando não há vaga
//   - Recorder: estatísticas das decisões (memória ou Redis), sempre best-effort
//
// Variáveis de ambiente do binário (cmd/doghouse) controlam o comportamento,
// como RATE_RPS, RATE_BURST, CONCURRENCY_MAX e CONCURRENCY_TIMEOUT.
package ratelimit
