// Package middlewarectx содержит HTTP middleware, работающие с контекстом запроса.
//
// LoadSession читает имя пользователя из сессии и кладёт его в контекст,
// RequireLogin закрывает маршруты от анонимных посетителей.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/feedback-board/internal/http/response"
	"github.com/magabrotheeeer/feedback-board/internal/lib/sl"
	"github.com/magabrotheeeer/feedback-board/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User — ключ для имени пользователя в контексте.
const User Key = "username"

// Sessions описывает источник имени пользователя и flash-сообщений.
type Sessions interface {
	Username(r *http.Request) (string, error)
	AddFlash(w http.ResponseWriter, r *http.Request, f session.Flash) error
}

// WithUsername возвращает контекст с именем пользователя.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, User, username)
}

// UsernameFrom возвращает имя пользователя из контекста.
func UsernameFrom(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(User).(string)
	return username, ok && username != ""
}

// LoadSession кладёт имя пользователя из сессии в контекст запроса.
// Ошибка хранилища сессий даёт 500.
func LoadSession(sessions Sessions, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.LoadSession"

			username, err := sessions.Username(r)
			if err != nil {
				log.With(
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				).Error("failed to load session", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}
			if username == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
		})
	}
}

// RequireLogin перенаправляет анонимного посетителя на /login с просьбой войти.
func RequireLogin(sessions Sessions, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UsernameFrom(r.Context()); !ok {
				response.Redirect(w, r, log, sessions, "/login",
					&session.Flash{Category: session.Danger, Message: "Please login first!"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
