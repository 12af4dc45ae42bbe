// Package middlewarectx содержит HTTP middleware: извлечение личности
// пользователя из JWT в заголовке Authorization и ограничение частоты
// запросов.
//
// IdentityMiddleware не отклоняет запросы без токена: register и login
// выполняются анонимно, а защищённые операции сами проверяют наличие
// личности в контексте и отвечают единообразной ошибкой аутентификации.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/planora/planora-api/internal/lib/jwt"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// IdentityMiddleware возвращает HTTP middleware, который разбирает JWT
// из заголовка Authorization. Валидный токен кладёт uid и роль в
// контекст; любой невалидный или отсутствующий токен оставляет запрос
// анонимным.
func IdentityMiddleware(jwtMaker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.IdentityMiddleware"

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := jwtMaker.ParseToken(tokenStr)
			if err != nil {
				log.Debug("invalid or expired token",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, claims.UserUID)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
