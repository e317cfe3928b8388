package middleware

import (
	"net/http"
	"strings"

	"arbscan/pkg/crypto"
)

// AdminAuth защищает изменяющие эндпоинты (настройки, площадки).
//
// Клиент передаёт токен в заголовке Authorization: Bearer <token>,
// в конфигурации хранится только bcrypt-хеш. Пустой хеш полностью
// закрывает доступ: безопаснее, чем молча пропускать всех.
func AdminAuth(tokenHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				http.Error(w, "Admin endpoints disabled. Set ADMIN_TOKEN_HASH.", http.StatusForbidden)
				return
			}

			token := bearerToken(r)
			if token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !crypto.SecretMatches(token, tokenHash) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken извлекает токен из заголовка Authorization
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
