// Package middleware - HTTP middleware для API сервера.
package middleware

import (
	"net/http"
	"runtime/debug"

	"arbscan/pkg/utils"
)

// Recovery перехватывает панику в handler'ах.
//
// Сервер продолжает обслуживать запросы, клиент получает 500,
// подробности с stack trace уходят в лог.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				utils.L().Error("паника в обработчике запроса",
					utils.Any("panic", err),
					utils.String("path", r.URL.Path),
					utils.String("method", r.Method),
					utils.String("stack", string(debug.Stack())),
				)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
