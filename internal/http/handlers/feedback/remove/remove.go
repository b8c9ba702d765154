package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/feedback-board/internal/http/middlewarectx"
	"github.com/magabrotheeeer/feedback-board/internal/http/response"
	"github.com/magabrotheeeer/feedback-board/internal/lib/sl"
	"github.com/magabrotheeeer/feedback-board/internal/models"
	"github.com/magabrotheeeer/feedback-board/internal/session"
	"github.com/magabrotheeeer/feedback-board/internal/storage"
)

type Service interface {
	Get(ctx context.Context, id int) (*models.Feedback, error)
	Delete(ctx context.Context, id int) error
}

type Sessions interface {
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
// @Summary Удалить отзыв
// @Description Удаляет отзыв, если текущий пользователь его автор.
// @Tags Feedback
// @Param id path int true "ID отзыва"
// @Success 302 "Перенаправление на /users/{username} (или на /home без прав)"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Отзыв не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /feedback/{id}/delete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.feedback.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	denied := &session.Flash{Category: session.Danger, Message: "You do not have permission to do this!"}

	current, ok := middlewarectx.UsernameFrom(r.Context())
	if !ok {
		log.Warn("permission denied: anonymous")
		response.Redirect(w, r, log, h.sessions, "/home", denied)
		return
	}

	fb, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("feedback not found", slog.Int("id", id))
			response.Render(w, r, log, h.sessions, http.StatusNotFound, response.Error("feedback not found"))
			return
		}
		log.Error("failed to get feedback", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}
	if fb.Username != current {
		log.Warn("permission denied", slog.String("session_user", current), slog.String("owner", fb.Username))
		response.Redirect(w, r, log, h.sessions, "/home", denied)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Error("failed to delete feedback", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not delete feedback"))
		return
	}

	log.Info("feedback deleted", slog.Int("id", id))
	response.Redirect(w, r, log, h.sessions, "/users/"+current,
		&session.Flash{Category: session.Success, Message: "Message has been deleted"})
}
