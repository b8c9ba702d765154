package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/feedback-board/internal/http/middlewarectx"
	"github.com/magabrotheeeer/feedback-board/internal/http/response"
	"github.com/magabrotheeeer/feedback-board/internal/lib/sl"
	"github.com/magabrotheeeer/feedback-board/internal/session"
	"github.com/magabrotheeeer/feedback-board/internal/storage"
)

type Service interface {
	Delete(ctx context.Context, username string) error
}

type Sessions interface {
	Logout(w http.ResponseWriter, r *http.Request) error
	AddFlash(w http.ResponseWriter, r *http.Request, f session.Flash) error
	Flashes(w http.ResponseWriter, r *http.Request) ([]session.Flash, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	sessions Sessions
}

func New(log *slog.Logger, service Service, sessions Sessions) *Handler {
	return &Handler{log: log, service: service, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Удалить пользователя
// @Description Удаляет текущего пользователя вместе с его отзывами и закрывает сессию.
// @Tags Users
// @Param username path string true "Имя пользователя"
// @Success 302 "Перенаправление на / (или на /home без прав)"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{username}/delete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")
	current, ok := middlewarectx.UsernameFrom(r.Context())
	if !ok || current != username {
		log.Warn("permission denied", slog.String("target", username), slog.String("session_user", current))
		response.Redirect(w, r, log, h.sessions, "/home",
			&session.Flash{Category: session.Danger, Message: "You do not have permission to do this!"})
		return
	}

	if err := h.service.Delete(r.Context(), username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found", slog.String("username", username))
			response.Render(w, r, log, h.sessions, http.StatusNotFound, response.Error("user not found"))
			return
		}
		log.Error("failed to delete user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	if err := h.sessions.Logout(w, r); err != nil {
		log.Error("failed to clear session", sl.Err(err))
	}

	log.Info("user deleted", slog.String("username", username))
	response.Redirect(w, r, log, h.sessions, "/",
		&session.Flash{Category: session.Success, Message: "User deleted successfully."})
}
