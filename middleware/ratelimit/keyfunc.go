package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// KeyFunc extrai a chave do cliente usada no rate limit.
type KeyFunc func(r *http.Request) string

// ClientKey prefere o header configurado, depois o primeiro IP do X-Forwarded-For
// (só se trustXFF) e por fim o host de RemoteAddr.
func ClientKey(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}

		addr := strings.TrimSpace(r.RemoteAddr)
		if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
			return host
		}
		if addr != "" {
			return addr
		}
		return "unknown"
	}
}
