package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/feedback-board/internal/http/response"
	"github.com/magabrotheeeer/feedback-board/internal/lib/sl"
	"github.com/magabrotheeeer/feedback-board/internal/models"
	"github.com/magabrotheeeer/feedback-board/internal/storage"
)

type UserService interface {
	Get(ctx context.Context, username string) (*models.User, error)
}

type FeedbackService interface {
	ListByUser(ctx context.Context, username string) ([]*models.Feedback, error)
}

// View — страница пользователя.
type View struct {
	User     *models.User       `json:"user"`
	FullName string             `json:"full_name"`
	Feedback []*models.Feedback `json:"feedback"`
}

type Handler struct {
	log      *slog.Logger
	users    UserService
	feedback FeedbackService
	flashes  response.FlashSource
}

func New(log *slog.Logger, users UserService, feedback FeedbackService, flashes response.FlashSource) *Handler {
	return &Handler{log: log, users: users, feedback: feedback, flashes: flashes}
}

// ServeHTTP godoc
// @Summary Страница пользователя
// @Description Возвращает данные пользователя и все его отзывы. Требует входа.
// @Tags Users
// @Produce  json
// @Param username path string true "Имя пользователя"
// @Success 200 {object} response.Response{data=View} "Пользователь и его отзывы"
// @Success 302 "Перенаправление на /login без сессии"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /users/{username} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username := chi.URLParam(r, "username")

	user, err := h.users.Get(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found", slog.String("username", username))
			response.Render(w, r, log, h.flashes, http.StatusNotFound, response.Error("user not found"))
			return
		}
		log.Error("failed to get user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	list, err := h.feedback.ListByUser(r.Context(), username)
	if err != nil {
		log.Error("failed to list feedback", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	response.Render(w, r, log, h.flashes, http.StatusOK, response.OK(View{
		User:     user,
		FullName: user.FullName(),
		Feedback: list,
	}))
}
